package utils

import (
	"fmt"
	"log"

	"renteo/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid
func SendEmail(to, subject, htmlBody string) error {
	from := mail.NewEmail(config.AppConfig.EmailName, config.AppConfig.EmailSender)
	receiver := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, receiver, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("Failed to send email to %s, response code: %d", to, response.StatusCode)
		return fmt.Errorf("failed to send email, code: %d", response.StatusCode)
	}

	return nil
}

// HTML wrapper shared by all outgoing mails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0B3D2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A1A; line-height: 1.6; }
			.content h2 { color: #0B3D2E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F5EE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
			.code { text-align: center; color: #2E8B57; font-size: 40px; margin: 20px 0; letter-spacing: 6px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				Renteo &middot; This is an automated message, please do not reply.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendOTPEmail sends a one-time verification code
func SendOTPEmail(otp, email string) error {
	body := fmt.Sprintf(`
		<h2>Your verification code</h2>
		<p>Use the following one-time code. It expires in 5 minutes.</p>
		<h1 class="code">%s</h1>
		<p>Do not share this code with anyone.</p>
	`, otp)

	return SendEmail(email, "Renteo Verification Code", getEmailTemplate("Renteo", body))
}

// SendVerificationSubmittedEmail confirms that the identity submission was received
func SendVerificationSubmittedEmail(email, userName string) error {
	body := fmt.Sprintf(`
		<h2>Submission received</h2>
		<p>Dear %s,</p>
		<p>Your identity verification has been submitted and is now being reviewed by our team.</p>
		<div class="info-box">Most reviews complete within 24 hours. We will email you as soon as a decision is made.</div>
	`, userName)

	return SendEmail(email, "Identity Verification Submitted", getEmailTemplate("Verification In Review", body))
}

// SendVerificationCompletedEmail notifies the user that their identity is verified
func SendVerificationCompletedEmail(email, userName string) error {
	body := fmt.Sprintf(`
		<h2>You're verified!</h2>
		<p>Dear %s,</p>
		<p>Your identity verification is complete. You can now book vehicles and list your own on Renteo.</p>
	`, userName)

	return SendEmail(email, "Identity Verification Completed", getEmailTemplate("Verification Complete", body))
}

// SendVerificationRejectedEmail notifies the user that their submission was rejected
func SendVerificationRejectedEmail(email, userName, reason string) error {
	body := fmt.Sprintf(`
		<h2>Action needed</h2>
		<p>Dear %s,</p>
		<p>We could not complete your identity verification.</p>
		<div class="info-box">%s</div>
		<p>Please review your submission and submit again.</p>
	`, userName, reason)

	return SendEmail(email, "Identity Verification Needs Attention", getEmailTemplate("Verification Update", body))
}

// SendClaimStatusEmail notifies a claimant that their claim status changed
func SendClaimStatusEmail(email, userName, referenceNo, status string) error {
	body := fmt.Sprintf(`
		<h2>Claim update</h2>
		<p>Dear %s,</p>
		<p>Your insurance claim <strong>%s</strong> has a new status:</p>
		<div class="info-box"><strong>%s</strong></div>
	`, userName, referenceNo, status)

	return SendEmail(email, "Insurance Claim Update", getEmailTemplate("Claim Update", body))
}

// SendPendingReviewReminder nudges the ops inbox about stale submissions
func SendPendingReviewReminder(count int64) error {
	body := fmt.Sprintf(`
		<h2>Pending verifications</h2>
		<p>There are <strong>%d</strong> identity verification submissions waiting for review for more than 24 hours.</p>
	`, count)

	return SendEmail(config.AppConfig.AdminEmail, "Verifications Awaiting Review", getEmailTemplate("Review Queue", body))
}
