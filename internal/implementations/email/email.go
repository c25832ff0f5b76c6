package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"gatekeeper/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/golang-module/carbon/v2"
)

type EmailSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender                  string
	passwordResetTemplate   string
	passwordResetBaseUrl    url.URL
	passwordChangedTemplate string
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
	passwordChangedTemplate string,
) *EmailSender {
	return &EmailSender{
		ses:                     ses.NewFromConfig(awsConfig),
		sender:                  sender,
		passwordResetTemplate:   passwordResetTemplate,
		passwordResetBaseUrl:    passwordResetBaseUrl,
		passwordChangedTemplate: passwordChangedTemplate,
	}
}

// SendPasswordResetToken mails the redemption link. The raw token is
// embedded in the URL path; the link is the only secret in the message.
func (s *EmailSender) SendPasswordResetToken(
	ctx context.Context,
	u user.User,
	token user.PasswordResetToken,
) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	params := passwordResetTemplateParams{
		PasswordResetUrl: s.passwordResetBaseUrl.JoinPath(string(token)).String(),
	}
	if u.PasswordResetTokenExpiresAt.IsPresent {
		params.ValidUntil = carbon.CreateFromStdTime(u.PasswordResetTokenExpiresAt.Value).ToDayDateTimeString()
	}
	templateParamsBytes, err := json.Marshal(params)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

// SendPasswordChangedNotification states which account's password changed.
// No secrets in the message body.
func (s *EmailSender) SendPasswordChangedNotification(ctx context.Context, u user.User) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	templateParamsBytes, err := json.Marshal(
		passwordChangedTemplateParams{Email: string(u.Email)},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordChangedTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type passwordResetTemplateParams struct {
	PasswordResetUrl string `json:"passwordResetUrl"`
	ValidUntil       string `json:"validUntil,omitempty"`
}

type passwordChangedTemplateParams struct {
	Email string `json:"email"`
}
