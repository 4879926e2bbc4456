package usecase

import (
	"fmt"
	"net/url"
	"strings"
)

// EmailSender delivers notification emails. *mailer.Mailer satisfies it;
// tests substitute a fake.
type EmailSender interface {
	SendSimple(to []string, subject, body string) error
}

// Notification delivery is best-effort by policy: state is persisted before
// the email is attempted, failures are logged and never change the outcome
// the caller sees.
func (u *accountUsecase) sendConfirmationEmail(email, token string) {
	link := u.buildLink("signup-confirmed", token, email)

	body := fmt.Sprintf(
		"Thanks for signing up.\n\n"+
			"Please confirm your account by following this link:\n\n%s\n\n"+
			"The link expires in %s. If you did not sign up, you can ignore this email.\n",
		link, u.accountServiceCfg.Token.ConfirmationTokenExpiresIn,
	)

	if err := u.mailer.SendSimple([]string{email}, u.accountServiceCfg.Email.ConfirmAccountSubject, body); err != nil {
		u.logger.Error().Err(err).Str("email", email).Msg("failed to send confirmation email")
		return
	}

	u.logger.Info().Str("email", email).Msg("sent confirmation email")
}

func (u *accountUsecase) sendPasswordResetEmail(email, token string) {
	link := u.buildLink("reset-password", token, email)

	body := fmt.Sprintf(
		"We received a request to reset the password for your account.\n\n"+
			"If you made this request, follow this link to choose a new password:\n\n%s\n\n"+
			"The link expires in %s. If you did not request a reset, your account remains secure.\n",
		link, u.accountServiceCfg.Token.PasswordResetTokenExpiresIn,
	)

	if err := u.mailer.SendSimple([]string{email}, u.accountServiceCfg.Email.PasswordResetSubject, body); err != nil {
		u.logger.Error().Err(err).Str("email", email).Msg("failed to send password reset email")
		return
	}

	u.logger.Info().Str("email", email).Msg("sent password reset email")
}

func (u *accountUsecase) buildLink(path, token, email string) string {
	base := strings.TrimRight(u.accountServiceCfg.AppBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s?email=%s", base, path, token, url.QueryEscape(email))
}
