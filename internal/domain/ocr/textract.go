// Package ocr turns PDF documents into positioned text tokens using AWS
// Textract's asynchronous document analysis.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"golang.org/x/time/rate"

	"github.com/spiritsdata/nabca-extract/internal/domain/layout"
)

// TokenSource produces layout tokens for a document stored under an S3 key.
type TokenSource interface {
	Analyze(ctx context.Context, key string) ([]layout.Token, error)
}

// TextractAPI is the subset of the Textract client the OCR layer uses.
type TextractAPI interface {
	StartDocumentAnalysis(ctx context.Context, params *textract.StartDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.StartDocumentAnalysisOutput, error)
	GetDocumentAnalysis(ctx context.Context, params *textract.GetDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.GetDocumentAnalysisOutput, error)
}

// Client runs asynchronous Textract analysis jobs against documents already
// uploaded to S3 and converts the resulting LINE blocks to layout tokens.
type Client struct {
	api     TextractAPI
	bucket  string
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewClient builds a Client. Polling is rate-limited to one status request
// per five seconds; Textract throttles aggressive pollers.
func NewClient(api TextractAPI, bucket string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		api:     api,
		bucket:  bucket,
		limiter: rate.NewLimiter(rate.Every(5*time.Second), 1),
		log:     log,
	}
}

// Analyze submits the document for table analysis, waits for the job to
// finish, and returns every LINE block as a token. Blocks other than LINE
// are dropped: the row grouper rebuilds table structure from positions.
func (c *Client) Analyze(ctx context.Context, key string) ([]layout.Token, error) {
	start, err := c.api.StartDocumentAnalysis(ctx, &textract.StartDocumentAnalysisInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(c.bucket),
				Name:   aws.String(key),
			},
		},
		FeatureTypes: []types.FeatureType{types.FeatureTypeTables},
	})
	if err != nil {
		return nil, fmt.Errorf("ocr: start analysis for %s: %w", key, err)
	}
	jobID := aws.ToString(start.JobId)
	c.log.Info("textract job started", slog.String("key", key), slog.String("job_id", jobID))

	first, err := c.waitForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	tokens := appendLineTokens(nil, first.Blocks)
	next := first.NextToken
	for next != nil {
		page, err := c.api.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
			JobId:     aws.String(jobID),
			NextToken: next,
		})
		if err != nil {
			return nil, fmt.Errorf("ocr: fetch analysis page: %w", err)
		}
		tokens = appendLineTokens(tokens, page.Blocks)
		next = page.NextToken
	}

	c.log.Info("textract job complete",
		slog.String("job_id", jobID),
		slog.Int("tokens", len(tokens)),
	)
	return tokens, nil
}

// waitForJob polls until the job leaves IN_PROGRESS and returns the first
// result page.
func (c *Client) waitForJob(ctx context.Context, jobID string) (*textract.GetDocumentAnalysisOutput, error) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("ocr: waiting for job %s: %w", jobID, err)
		}

		out, err := c.api.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
			JobId: aws.String(jobID),
		})
		if err != nil {
			return nil, fmt.Errorf("ocr: poll job %s: %w", jobID, err)
		}

		switch out.JobStatus {
		case types.JobStatusSucceeded:
			return out, nil
		case types.JobStatusInProgress:
			c.log.Debug("textract job in progress", slog.String("job_id", jobID))
		case types.JobStatusPartialSuccess:
			// Partial results still carry usable pages; the engine's page
			// filter and validation surface anything missing.
			c.log.Warn("textract job partial success", slog.String("job_id", jobID))
			return out, nil
		default:
			return nil, fmt.Errorf("ocr: job %s ended with status %s: %s",
				jobID, out.JobStatus, aws.ToString(out.StatusMessage))
		}
	}
}

func appendLineTokens(tokens []layout.Token, blocks []types.Block) []layout.Token {
	for _, b := range blocks {
		if b.BlockType != types.BlockTypeLine {
			continue
		}
		if b.Geometry == nil || b.Geometry.BoundingBox == nil {
			continue
		}
		box := b.Geometry.BoundingBox
		tokens = append(tokens, layout.Token{
			Page:  int(aws.ToInt32(b.Page)),
			Text:  aws.ToString(b.Text),
			X:     float64(box.Left),
			Y:     float64(box.Top),
			Width: float64(box.Width),
		})
	}
	return tokens
}
