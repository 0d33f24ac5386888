package reminders

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/charmbracelet/log"
)

// Reminder is the daily nudge sent to one user.
type Reminder struct {
	UserID      uint
	Email       string
	Name        string
	Day         int // 0 before the challenge starts
	Title       string
	Affirmation string
}

func (r Reminder) Subject() string {
	if r.Day == 0 {
		return "Ton glow up t'attend"
	}
	return fmt.Sprintf("Jour %d : %s", r.Day, r.Title)
}

func (r Reminder) Body(baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", r.Name)
	if r.Day == 0 {
		b.WriteString("Ton challenge de 30 jours n'a pas encore commencé.\n")
	} else {
		fmt.Fprintf(&b, "Le jour %d est disponible : %s.\n", r.Day, r.Title)
	}
	if r.Affirmation != "" {
		fmt.Fprintf(&b, "\n« %s »\n", r.Affirmation)
	}
	if baseURL != "" {
		fmt.Fprintf(&b, "\n%s\n", baseURL)
	}
	return b.String()
}

// Notifier delivers reminders.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// LogNotifier writes reminders to the log. It is used when no sender address
// is configured.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(_ context.Context, r Reminder) error {
	n.Logger.Info("reminder", "user_id", r.UserID, "day", r.Day, "subject", r.Subject())
	return nil
}

// SESClient is the part of the SES v2 client used for sending.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier e-mails reminders through Amazon SES.
type SESNotifier struct {
	client    SESClient
	fromEmail string
	fromName  string
	baseURL   string
}

// NewSESNotifier loads the default AWS configuration for region.
func NewSESNotifier(ctx context.Context, region, fromEmail, fromName, baseURL string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSESNotifierWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, baseURL), nil
}

func NewSESNotifierWithClient(client SESClient, fromEmail, fromName, baseURL string) *SESNotifier {
	return &SESNotifier{client: client, fromEmail: fromEmail, fromName: fromName, baseURL: baseURL}
}

func (n *SESNotifier) Notify(ctx context.Context, r Reminder) error {
	from := n.fromEmail
	if n.fromName != "" {
		from = fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{r.Email}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(r.Subject()), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(r.Body(n.baseURL)), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send reminder to %s: %w", r.Email, err)
	}
	return nil
}
