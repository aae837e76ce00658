package email

import (
	"fmt"
	"html/template"
	"strings"
)

// Branded message bodies for the auth flows. Kept as parsed templates so a
// bad edit fails at startup, not mid-request.

var welcomeTpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: 'Segoe UI', Roboto, sans-serif; max-width: 640px; margin: auto;">
  <h2>Welcome to SafeSpace, {{.Name}}!</h2>
  <p>Your account has been created successfully. You're now part of a community
  dedicated to staying informed and safe.</p>
  <p><a href="{{.DashboardURL}}">Go to your dashboard</a></p>
  <p>Stay safe, stay informed!<br>The SafeSpace Team</p>
</div>`))

var resetRequestTpl = template.Must(template.New("reset_request").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>Hi {{.Name}},</p>
  <p>You requested to reset your password for your SafeSpace account.</p>
  <p><a href="{{.ResetURL}}">Reset Password</a></p>
  <p><strong>This link will expire in 1 hour.</strong></p>
  <p>If you didn't request this password reset, please ignore this email.</p>
</div>`))

var resetDoneTpl = template.Must(template.New("reset_done").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Successful</h2>
  <p>Hi {{.Name}},</p>
  <p>Your SafeSpace account password has been successfully reset.</p>
  <p>If you didn't make this change, please contact our support team immediately.</p>
  <p><a href="{{.LoginURL}}">Login to Your Account</a></p>
</div>`))

func render(tpl *template.Template, data interface{}) string {
	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		// Templates are static and parsed at init; execution can only fail
		// on a data shape bug, which is a programmer error.
		panic(err)
	}
	return sb.String()
}

// WelcomeEmail builds the post-registration greeting.
func WelcomeEmail(to, name, frontendURL string) *Email {
	return &Email{
		To:      to,
		Subject: "Welcome to SafeSpace - Your Safety Journey Begins!",
		Body:    "Your account has been created successfully.",
		HTMLBody: render(welcomeTpl, map[string]string{
			"Name":         name,
			"DashboardURL": frontendURL + "/dashboard",
		}),
	}
}

// PasswordResetEmail builds the reset-link mail.
func PasswordResetEmail(to, name, resetURL string) *Email {
	return &Email{
		To:      to,
		Subject: "Password Reset Request",
		Body:    "Use this link to reset your password (valid 1 hour): " + resetURL,
		HTMLBody: render(resetRequestTpl, map[string]string{
			"Name":     name,
			"ResetURL": resetURL,
		}),
	}
}

// PasswordResetDoneEmail builds the post-reset confirmation.
func PasswordResetDoneEmail(to, name, frontendURL string) *Email {
	return &Email{
		To:      to,
		Subject: "Password Successfully Reset",
		Body:    "Your SafeSpace account password has been successfully reset.",
		HTMLBody: render(resetDoneTpl, map[string]string{
			"Name":     name,
			"LoginURL": frontendURL + "/login",
		}),
	}
}

// OTPEmail builds the login-code mail. Plain text on purpose: codes should
// survive aggressive HTML stripping.
func OTPEmail(to, code string) *Email {
	return &Email{
		To:      to,
		Subject: "Login OTP",
		Body:    fmt.Sprintf("Your OTP for login is: %s. It is valid for 5 minutes.", code),
	}
}
