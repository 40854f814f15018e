package compose

import "html/template"

var residentTemplate = template.Must(template.New("resident").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
    <style>
        @import url('https://fonts.googleapis.com/css2?family=Poppins:wght@400;600&display=swap');
        body { font-family: 'Poppins', sans-serif; background-color: #f4f4f4; color: #333; margin: 0; padding: 0; }
        .container { max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); border: 1px solid #e8e8e8; }
        .header { background-color: #4A90E2; color: #ffffff; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; line-height: 1.7; color: #555; }
        .content p { margin: 0 0 15px 0; }
        .button-container { text-align: center; margin-top: 25px; }
        .button { display: inline-block; padding: 12px 25px; background-color: #50C878; color: #ffffff; text-decoration: none; border-radius: 50px; font-weight: 600; font-size: 16px; }
        .footer { padding: 20px; font-size: 12px; color: #888; text-align: center; background-color: #f9f9f9; border-top: 1px solid #e8e8e8; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Subject}}</h1>
        </div>
        <div class="content">
            <p>Hi {{.FirstName}},</p>
            <p>{{.Body}}</p>
            <div class="button-container">
                <a href="{{.ReportLink}}" class="button">Report an Issue</a>
            </div>
        </div>
        <div class="footer">
            <p>This is an automated message. For urgent enquiries, please contact {{.OwnerName}} at {{.OwnerNumber}}.</p>
        </div>
    </div>
</body>
</html>
`))

var ownerIssueTemplate = template.Must(template.New("owner-issue").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Maintenance Issue Reported</title>
    <style>
        @import url('https://fonts.googleapis.com/css2?family=Poppins:wght@400;600&display=swap');
        body { font-family: 'Poppins', sans-serif; background-color: #f9fafb; color: #374151; margin: 0; padding: 20px; }
        .container { max-width: 560px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; border: 1px solid #e5e7eb; }
        .header { background-color: #FF5A5F; color: #ffffff; padding: 24px; text-align: center; }
        .header h1 { margin: 0; font-size: 28px; font-weight: 600; }
        .content { padding: 32px; color: #4b5563; }
        .content h2 { font-size: 20px; color: #111827; margin-top: 0; margin-bottom: 20px; }
        .content p { margin: 0 0 10px; line-height: 1.6; }
        .details-box { background-color: #f3f4f6; border: 1px solid #e5e7eb; border-radius: 8px; padding: 20px; margin-top: 20px; }
        .details-box strong { color: #111827; }
        .button-container { text-align: center; margin-top: 30px; margin-bottom: 10px; }
        .button { display: inline-block; padding: 14px 28px; background-color: #3B82F6; color: #ffffff; text-decoration: none; border-radius: 50px; font-weight: 600; font-size: 16px; }
        .footer { padding: 24px; font-size: 13px; color: #9ca3af; text-align: center; background-color: #f9fafb; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Issue Reported</h1>
        </div>
        <div class="content">
            <h2>A new maintenance issue has been submitted.</h2>
            <p>Here are the details:</p>
            <div class="details-box">
                <p><strong>Reported By:</strong> {{.Issue.ReportedBy}}</p>
                <p><strong>Flat Number:</strong> {{.Issue.FlatNumber}}</p>
                <p><strong>Description:</strong></p>
                <p>{{.Issue.Description}}</p>
            </div>
            <div class="button-container">
                <a href="{{.IssuesLink}}" class="button">View All Issues</a>
            </div>
        </div>
        <div class="footer">
            <p>This is an automated notification from your Bin Reminder App.</p>
        </div>
    </div>
</body>
</html>
`))
