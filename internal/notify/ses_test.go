package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttravel/hospitality/internal/domain"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func submission() domain.ContactSubmission {
	return domain.ContactSubmission{
		ID:        "sub-1",
		FirstName: "Asha",
		LastName:  "Roy",
		Email:     "asha@example.com",
		Subject:   "Houseboats in Kerala",
		Message:   "Two adults, late December.",
		Status:    domain.StatusPending,
		CreatedAt: time.Date(2026, 12, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestSESNotifier_SendsRenderedEmail(t *testing.T) {
	fake := &fakeSES{}
	n, err := NewSESNotifier(fake, "site@ttravel.example", []string{"desk@ttravel.example"}, Templates{})
	require.NoError(t, err)

	require.NoError(t, n.NotifyContactSubmission(context.Background(), submission()))
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, "site@ttravel.example", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"desk@ttravel.example"}, in.Destination.ToAddresses)
	assert.Equal(t, []string{"asha@example.com"}, in.ReplyToAddresses)

	subject := aws.ToString(in.Content.Simple.Subject.Data)
	body := aws.ToString(in.Content.Simple.Body.Text.Data)
	assert.Equal(t, "New enquiry: Houseboats in Kerala", subject)
	assert.Contains(t, body, "Asha Roy <asha@example.com>")
	assert.Contains(t, body, "Two adults, late December.")
	assert.Contains(t, body, "Submission id: sub-1")
}

func TestSESNotifier_CustomTemplates(t *testing.T) {
	fake := &fakeSES{}
	n, err := NewSESNotifier(fake, "a@x.com", []string{"b@x.com"}, Templates{
		Subject: "[{{ first_name | upcase }}] {{ subject }}",
		Body:    "{{ message }}",
	})
	require.NoError(t, err)

	require.NoError(t, n.NotifyContactSubmission(context.Background(), submission()))
	assert.Equal(t, "[ASHA] Houseboats in Kerala", aws.ToString(fake.inputs[0].Content.Simple.Subject.Data))
	assert.Equal(t, "Two adults, late December.", aws.ToString(fake.inputs[0].Content.Simple.Body.Text.Data))
}

func TestSESNotifier_SendError(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	n, err := NewSESNotifier(fake, "a@x.com", []string{"b@x.com"}, Templates{})
	require.NoError(t, err)

	err = n.NotifyContactSubmission(context.Background(), submission())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "ses send:"))
}

func TestNewSESNotifier_Validation(t *testing.T) {
	_, err := NewSESNotifier(&fakeSES{}, "", []string{"b@x.com"}, Templates{})
	assert.Error(t, err)

	_, err = NewSESNotifier(&fakeSES{}, "a@x.com", []string{"b@x.com"}, Templates{Subject: "{% if %}"})
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.NotifyContactSubmission(context.Background(), submission()))
}
