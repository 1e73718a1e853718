package vocab

import "strings"

// BrandSummaryClasses returns the controlled vocabulary for the Brand
// Summary table: every product class printed in the section, including the
// Textract misreads observed across the processed report months.
func BrandSummaryClasses() *Vocabulary {
	return New(Config{
		Canonical: brandSummaryCanonical,
		Variants:  brandSummaryVariants,
		Suffixes:  classSuffixes,
		Prefixes:  classPrefixes,
		Pairs: []PairRule{
			{First: "NEUTRAL GRAIN", Second: "SPIRIT", Combined: "NEUTRAL GRAIN SPIRIT"},
		},
		StripTail: []string{"NABCA", "CONTROL", "STATES", "BRAND", "SUMMARY", "PAGE"},
	})
}

var brandSummaryCanonical = []string{
	// Domestic whiskey
	"DOM WHSKY-BLND", "DOM WHSKY-SNGL MALT", "DOM WHSKY-STRT-BRBN/TN",
	"DOM WHSKY-STRT-OTH", "DOM WHSKY-STRT-RYE", "DOM WHSKY-STRT-SM BTCH",
	// Scotch
	"SCOTCH-BLND-FRGN BTLD", "SCOTCH-BLND-US BTLD", "SCOTCH-SNGL MALT",
	// Canadian
	"CAN-FRGN BLND-FRGN BTLD", "CAN-US BLND-US BTLD",
	// Irish
	"IRISH", "IRISH-BLND", "IRISH-SNGL MALT",
	// Other imported whiskey
	"OTH IMP WHSKY", "OTH IMP WHSKY-BLND", "OTH IMP WHSKY-SNGL MALT",
	// Brandy/cognac. BRNDY/CGNC-CGNC without a grade is ambiguous
	// (VS/VSOP/XO) and is resolved retroactively from its TOTAL row.
	"BRNDY/CGNC-ARMGNC", "BRNDY/CGNC-CGNC-OTH", "BRNDY/CGNC-CGNC-VS",
	"BRNDY/CGNC-CGNC-VSOP", "BRNDY/CGNC-CGNC-XO", "BRNDY/CGNC-DOM",
	"BRNDY/CGNC-IMP", "BRNDY/CGNC-CGNC",
	// Rum
	"RUM-AGED/DARK", "RUM-FLVRD", "RUM-GOLD", "RUM-LIGHT",
	// Gin
	"GIN-CLASSIC-DOM", "GIN-CLASSIC-IMP", "GIN-FLVRD-DOM", "GIN-FLVRD-IMP",
	// Vodka
	"VODKA-CLASSIC-DOM", "VODKA-CLASSIC-IMP", "VODKA-FLVRD-DOM", "VODKA-FLVRD-IMP",
	// Tequila
	"TEQUILA-ANEJO", "TEQUILA-BLANCO", "TEQUILA-CRISTALINO",
	"TEQUILA-FLAVORED", "TEQUILA-GOLD", "TEQUILA-REPOSADO",
	// Mezcal
	"MEZCAL-CRISTALINO", "MEZCAL",
	// Cordials
	"CRDL-COFFEE LQR", "CRDL-CRM LQR",
	"CRDL-LQR&SPC-AMRT", "CRDL-LQR&SPC-ANSE FLVRD", "CRDL-LQR&SPC-CRM",
	"CRDL-LQR&SPC-CURACAO", "CRDL-LQR&SPC-FRT", "CRDL-LQR&SPC-HZLNT",
	"CRDL-LQR&SPC-OTH", "CRDL-LQR&SPC-SLOE GIN", "CRDL-LQR&SPC-SPRT SPCTY",
	"CRDL-LQR&SPC-TRIPLE SEC", "CRDL-LQR&SPC-WHSKY",
	"CRDL-SNPS-APPL", "CRDL-SNPS-BTRSCTCH", "CRDL-SNPS-CNNMN",
	"CRDL-SNPS-OTH", "CRDL-SNPS-PEACH", "CRDL-SNPS-PPRMNT",
	// Other
	"COCKTAILS", "NEUTRAL GRAIN SPIRIT", "CACHACA",
}

// brandSummaryVariants maps observed OCR damage to canonical names. Entries
// accumulate per processed month; each one was seen in a real report.
var brandSummaryVariants = map[string]string{
	"DOM WHSKY-STRT-BRBN":    "DOM WHSKY-STRT-BRBN/TN",
	"DOM WHSKY-STRT-BRBN-TN": "DOM WHSKY-STRT-BRBN/TN",
	"DOM WHSKY-STRT-BRBNTN":  "DOM WHSKY-STRT-BRBN/TN",
	"DOM WHSKY-STRT-BRBN1TN": "DOM WHSKY-STRT-BRBN/TN",
	"DOM WHSKY-STRT-BRBN TN": "DOM WHSKY-STRT-BRBN/TN",
	"DOM WHSKY -SNGL MALT":   "DOM WHSKY-SNGL MALT",
	"DOM WHSKY-STRT":         "DOM WHSKY-STRT-OTH",

	"BRNDY/CGNC-ARMGNO":    "BRNDY/CGNC-ARMGNC",
	"BRNDY/CGNC-CGNC -OTH": "BRNDY/CGNC-CGNC-OTH",
	"BRNDY/CGNC-CGNC-V S":  "BRNDY/CGNC-CGNC-VS",
	"BRNDY/CGNC-CGNC- VS":  "BRNDY/CGNC-CGNC-VS",
	"BRNDY/CGNC-CGNC VS":   "BRNDY/CGNC-CGNC-VS",
	"BRNDY CGNC-CGNC-VS":   "BRNDY/CGNC-CGNC-VS",
	"BRNDY/CGNNC-CGNC-VS":  "BRNDY/CGNC-CGNC-VS",
	"BRNDY/CGN NC-CGNC-VS": "BRNDY/CGNC-CGNC-VS",
	"BRNDY/CG NC-CGNC-VS":  "BRNDY/CGNC-CGNC-VS",
	// Trailing dash stays ambiguous; the TOTAL row picks the grade.
	"BRNDY/CGNC-CGNC-": "BRNDY/CGNC-CGNC",
	// TOTAL rows split mid-word drop the BRNDY/CG prefix entirely.
	"NC-CGNC-OTH":  "BRNDY/CGNC-CGNC-OTH",
	"NC-CGNC-VS":   "BRNDY/CGNC-CGNC-VS",
	"NC-CGNC-VSOP": "BRNDY/CGNC-CGNC-VSOP",
	"NC-CGNC-XO":   "BRNDY/CGNC-CGNC-XO",

	"CRDL-SNPS-BTRSCTC":        "CRDL-SNPS-BTRSCTCH",
	"CRDL-SNPS-BTRS":           "CRDL-SNPS-BTRSCTCH",
	"CRDL-LQR8SPC":             "CRDL-LQR&SPC",
	"CRDL-LQR8 SPC":            "CRDL-LQR&SPC",
	"CRDL-LQR8":                "CRDL-LQR&",
	"CRDL-LQR&SPC-SPRT SPEC":   "CRDL-LQR&SPC-SPRT SPCTY",
	"CRDL-LQR&SPC-SPRT":        "CRDL-LQR&SPC-SPRT SPCTY",
	"CRDL-LQR&SPC-SPRT SPCT":   "CRDL-LQR&SPC-SPRT SPCTY",
	"CRDL-LQR&SPC- SPRT SPCTY": "CRDL-LQR&SPC-SPRT SPCTY",
	"CRDL-LQR&SPC-SPR SPCTY":   "CRDL-LQR&SPC-SPRT SPCTY",
	"CRDL-LQR&SPC-FR":          "CRDL-LQR&SPC-FRT",
	"CRDL-LQR&SPC-ANSI FLVRD":  "CRDL-LQR&SPC-ANSE FLVRD",
	"CRDL-LQR SPC-SLOE GIN":    "CRDL-LQR&SPC-SLOE GIN",
	"CRDL-LQR8 SPC-ANSE FLVR":  "CRDL-LQR&SPC-ANSE FLVRD",
	"CRDL-LQR&SPC-WHSK":        "CRDL-LQR&SPC-WHSKY",
	"CRDL-LQR&SPC- WHSKY":      "CRDL-LQR&SPC-WHSKY",
	"CRDL-LQR&SPC-WHSKY SPCTY": "CRDL-LQR&SPC-WHSKY",
	"SPC-WHSKY":                "CRDL-LQR&SPC-WHSKY",
	"SPC-WHSKY SPC":            "CRDL-LQR&SPC-WHSKY",
	"CRDL-LQR&SPC-TRIPLE":      "CRDL-LQR&SPC-TRIPLE SEC",
	"TRIPLE SE":                "CRDL-LQR&SPC-TRIPLE SEC",
	"CRDL-LQR8 SPC-SLOE GIN":   "CRDL-LQR&SPC-SLOE GIN",
	"CRDL-LQR8 &SPC-SPRT SPCT": "CRDL-LQR&SPC-SPRT SPCTY",

	"OTH IMP WHSKY- BLND": "OTH IMP WHSKY-BLND",
}

// classSuffixes are tokens that continue a split class name rather than
// naming a vendor or brand.
var classSuffixes = []string{
	"MALT", "BLND", "BTLD", "BRBN", "RYE", "STRT", "SNGL", "FLVRD",
	"CLASSIC", "GOLD", "LIGHT", "DARK", "AGED", "REPOSADO", "BLANCO",
	"ANEJO", "CRISTALINO", "DOM", "IMP", "FRGN", "TN", "OTH", "SM BTCH",
	"COFFEE", "CRM", "LQR", "TRIPLE", "SEC", "FRT", "SNPS", "SPCTY",
	"BRBN/TN", "BRBN TN", "FRGN BTLD", "US BTLD", "SNGL MALT", "-OTH", "-VS", "-VSOP", "-XO",
	"ANSE FLVRD", "SPRT SPCTY", "SLOE GIN", "TRIPLE SEC",
	"VS", "VSOP", "XO", "WHSKY",
}

// classPrefixes mark the start of a class family name.
var classPrefixes = []string{
	"DOM WHSKY", "SCOTCH", "CAN-", "IRISH", "OTH IMP",
	"GIN-", "VODKA-", "RUM-", "BRNDY/CGNC", "TEQUILA-", "MEZCAL",
	"COCKTAILS", "CRDL-", "NEUTRAL", "CACHACA",
}

// VendorSummaryClasses returns the vocabulary for the class column of the
// Vendor Summary table, which prints long-form class names.
func VendorSummaryClasses() *Vocabulary {
	return New(Config{
		Canonical: vendorSummaryCanonical,
		StripTail: []string{"NABCA", "PAGE"},
	})
}

var vendorSummaryCanonical = []string{
	"AFTER DINNER", "ALE/PILSNER", "AMERICAN WHISKEY", "ANISETTE",
	"APERITIFS", "ARMAGNAC", "BLEND", "BLENDED WHISKEY", "BOURBON",
	"BRANDY", "BRANDY & COGNAC", "CANADIAN WHISKEY", "COCKTAILS",
	"COGNAC", "CORN WHISKEY", "CREAM LIQUEUR", "CREME DE CACAO",
	"CREME DE CASSIS", "CREME DE MENTHE", "CURACAO", "DARK RUM",
	"FLAVORED BRANDY", "FLAVORED GIN", "FLAVORED RUM", "FLAVORED VODKA",
	"FLAVORED WHISKEY", "FRUIT FLAVORED", "GIN", "GRAIN ALCOHOL",
	"GRAPPA", "HERBAL", "IMPORTED WHISKEY", "IRISH WHISKEY",
	"JAPANESE WHISKY", "KIRSCH", "LIGHT RUM", "LIGHT WHISKEY",
	"LIQUEURS", "LIQUEURS / CORDIALS", "LITER OR LESS", "MALT",
	"MARASCHINO", "MEZCAL", "MISC BRANDY", "MISC DISTILLED SPIRITS",
	"MISC IMPORTED WHISKEY", "MISC WHISKEY", "NEUTRAL SPIRITS",
	"OTHER", "OTHER TEQUILA", "PREPARED COCKTAILS",
	"PREPARED COCKTAILS / RTD", "PRLM FLVRD", "ROCK & RYE", "RTD",
	"RUM", "RYE WHISKEY", "SCHNAPPS", "SCOTCH", "SINGLE MALT SCOTCH",
	"SPICED RUM", "STRAIGHT BOURBON", "STRAIGHT RYE", "TENNESSEE WHISKEY",
	"TEQUILA", "TRIPLE SEC", "VODKA", "VODKA / MALT", "WHISKEY",
}

// ParentClass maps a brand-summary class name (or its TOTAL form) to the
// report's parent grouping. Unknown classes map to the empty string.
func ParentClass(class string) string {
	cn := strings.ToUpper(strings.TrimSpace(class))
	switch {
	case strings.HasPrefix(cn, "DOM WHSKY") || cn == "TOTAL DOM WHSKY":
		return "DOM WHSKY"
	case strings.HasPrefix(cn, "SCOTCH") || cn == "TOTAL SCOTCH":
		return "SCOTCH"
	case strings.HasPrefix(cn, "CAN-") || cn == "TOTAL CAN" || cn == "TOTAL CANADIAN":
		return "CANADIAN"
	case strings.HasPrefix(cn, "IRISH") || cn == "TOTAL IRISH":
		return "IRISH"
	case strings.HasPrefix(cn, "OTH IMP WHSKY") || cn == "TOTAL OTH IMP WHSKY":
		return "OTH IMP WHSKY"
	case strings.HasPrefix(cn, "GIN-") || cn == "TOTAL GIN":
		return "GIN"
	case strings.HasPrefix(cn, "VODKA") || cn == "TOTAL VODKA":
		return "VODKA"
	case cn == "NEUTRAL GRAIN SPIRIT":
		return "VODKA"
	case strings.HasPrefix(cn, "RUM-") || cn == "TOTAL RUM":
		return "RUM"
	case cn == "CACHACA":
		return "RUM"
	case strings.HasPrefix(cn, "BRNDY/CGNC") || cn == "TOTAL BRANDY" || strings.Contains(cn, "BRANDY/COGNAC"):
		return "BRANDY/COGNAC"
	case strings.HasPrefix(cn, "TEQUILA") || cn == "TOTAL TEQUILA":
		return "TEQUILA"
	case strings.HasPrefix(cn, "MEZCAL") || cn == "TOTAL MEZCAL":
		return "MEZCAL"
	case strings.HasPrefix(cn, "CRDL-") || cn == "TOTAL CORDIALS":
		return "CORDIALS"
	case cn == "COCKTAILS" || cn == "TOTAL COCKTAILS":
		return "COCKTAILS"
	default:
		return ""
	}
}
