package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/logger"
)

// SESAPI is the part of *sesv2.Client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// NewSESClient builds an SES v2 client. Static credentials are used when both
// keys are set; otherwise the default AWS credential chain applies.
func NewSESClient(ctx context.Context, region, accessKey, secretKey string) (*sesv2.Client, error) {
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

// SESNotifier emails each enquiry to the agency inbox. Reply-To is set to
// the visitor so staff can answer from their mail client.
type SESNotifier struct {
	client SESAPI
	from   string
	to     []string
	tmpl   *renderer
}

// NewSESNotifier parses the templates up front so a bad template fails at
// start-up rather than on the first enquiry.
func NewSESNotifier(client SESAPI, from string, to []string, t Templates) (*SESNotifier, error) {
	if from == "" || len(to) == 0 {
		return nil, errors.New("notify: from and to addresses are required")
	}
	r, err := newRenderer(t)
	if err != nil {
		return nil, err
	}
	return &SESNotifier{client: client, from: from, to: to, tmpl: r}, nil
}

func (n *SESNotifier) NotifyContactSubmission(ctx context.Context, s domain.ContactSubmission) error {
	subject, body, err := n.tmpl.render(s)
	if err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from),
		Destination:      &types.Destination{ToAddresses: n.to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("kind"), Value: aws.String("contact_submission")},
		},
	}
	if s.Email != "" {
		input.ReplyToAddresses = []string{s.Email}
	}

	out, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	messageID := ""
	if out != nil && out.MessageId != nil {
		messageID = *out.MessageId
	}
	logger.Info("contact notification sent", "submission", s.ID, "message_id", messageID, "reply_to", s.Email)
	return nil
}
