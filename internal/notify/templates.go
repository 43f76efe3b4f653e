package notify

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// OfferDetails holds the values merged into offer-letter emails.
type OfferDetails struct {
	CandidateName string
	Position      string
	Salary        string
	StartDate     string
}

// OfferAcceptedMessage builds the acceptance email. The PDF attachment is added by the caller.
func OfferAcceptedMessage(to string, d OfferDetails) Message {
	text := fmt.Sprintf("Dear %s,\n\n"+
		"We are pleased to offer you the position of %s at our company. "+
		"Based on your interview and qualifications, we believe you are a great fit for the role. "+
		"The offered salary for this position is %s, and your expected start date will be %s.\n\n"+
		"Please review the attached offer letter for detailed terms and respond by [Response Deadline].\n\n"+
		"We look forward to your response.\n\n"+
		"Best regards,\nHR Team",
		d.CandidateName, d.Position, d.Salary, d.StartDate)
	return Message{
		Kind:    KindOfferAccepted,
		To:      to,
		Subject: "Offer Letter for " + d.Position,
		Text:    text,
		HTML:    textToHTML(text),
	}
}

func OfferRejectedMessage(to string, d OfferDetails) Message {
	text := fmt.Sprintf("Dear %s,\n\n"+
		"Thank you for your interest in the position of %s at our company. "+
		"We appreciate the time and effort you invested in the application and interview process.\n\n"+
		"After careful consideration, we regret to inform you that we will not be moving forward with your application at this time.\n\n"+
		"We wish you all the best in your future endeavors.\n\n"+
		"Best regards,\nHR Team",
		d.CandidateName, d.Position)
	return Message{
		Kind:    KindOfferRejected,
		To:      to,
		Subject: "Application Update for " + d.Position,
		Text:    text,
		HTML:    textToHTML(text),
	}
}

var resetTemplate = template.Must(template.New("reset").Parse(`<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f6f9fc;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color:#f6f9fc;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td align="center" style="padding-bottom:20px;">
              <h2 style="margin-top:10px;color:#333333;">Reset Your Password</h2>
            </td>
          </tr>
          <tr>
            <td style="color:#555555;font-size:16px;line-height:1.6;">
              <p>Hi <strong>{{.Name}}</strong>,</p>
              <p>We received a request to reset your password. Click the button below to create a new password:</p>
              <p style="text-align:center;margin:30px 0;">
                <a href="{{.Link}}" style="background-color:#6366f1;color:white;padding:12px 24px;border-radius:6px;text-decoration:none;font-weight:bold;display:inline-block;">Reset Password</a>
              </p>
              <p>If you didn't request this, please ignore this email. This link will expire in {{.ExpiresIn}}.</p>
              <p>Thank you,<br/><strong>HR Recruiter Team</strong></p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>`))

// PasswordResetMessage builds the reset-link email.
func PasswordResetMessage(to, name, link, expiresIn string) (Message, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Name      string
		Link      string
		ExpiresIn string
	}{Name: name, Link: link, ExpiresIn: expiresIn})
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    KindPasswordReset,
		To:      to,
		Subject: "Password Reset Link",
		Text:    "Reset your password using this link: " + link,
		HTML:    buf.String(),
	}, nil
}

func textToHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br/>") + "</p>"
}
