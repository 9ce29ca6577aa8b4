package notify

import "fmt"

const shopName = "Marmu Barber & Tattoo Shop"

func otpBody(code string, expiryMinutes int) string {
	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; background-color: #333; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background: #333; padding: 30px; border-radius: 8px; border: 4px solid goldenrod;">
    <h2 style="color: goldenrod; text-align: center;">%s</h2>
    <p style="font-size: 16px; color: #fff;">Use the following OTP to proceed:</p>
    <div style="text-align: center; margin: 30px 0;">
      <span style="font-size: 32px; font-weight: bold; color: #fff; padding: 15px 25px; border: 2px solid goldenrod; border-radius: 4px; letter-spacing: 5px;">%s</span>
    </div>
    <p style="font-size: 14px; color: #ddd;">This code is valid for <strong>%d minutes</strong>.</p>
  </div>
</body>
</html>`, shopName, code, expiryMinutes)
}

func statusBody(fullname, status, service, date, timeLabel, staffName string) string {
	color := "#d9534f"
	if status == "Approved" {
		color = "#28a745"
	}
	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background: #333; padding: 30px; border-radius: 8px; border: 4px solid goldenrod;">
    <h2 style="color: goldenrod; text-align: center;">%s</h2>
    <p style="font-size: 16px; color: #fff;">Hi %s,</p>
    <p style="font-size: 16px; color: #fff;">Your appointment has been <strong style="color: %s;">%s</strong>.</p>
    <div style="padding: 15px 20px; border: 2px solid goldenrod; border-radius: 6px; margin: 20px 0; color: #fff;">
      <p><strong>Service:</strong> %s</p>
      <p><strong>Artist:</strong> %s</p>
      <p><strong>Date:</strong> %s</p>
      <p><strong>Time:</strong> %s</p>
    </div>
  </div>
</body>
</html>`, shopName, fullname, color, status, orNA(service), orNA(staffName), orNA(date), orNA(timeLabel))
}

func feedbackReplyBody(username, reply string) string {
	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background: #333; padding: 30px; border: 1px solid goldenrod; border-radius: 8px;">
    <h2 style="color: goldenrod; text-align: center;">%s</h2>
    <p style="font-size: 16px; color: #fff;">Hi %s,</p>
    <div style="padding: 15px 20px; border: 2px solid goldenrod; border-radius: 5px; color: #fff;">
      <strong>Our Reply:</strong><br>%s
    </div>
  </div>
</body>
</html>`, shopName, username, reply)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
