// internal/appstate/demo.go
package appstate

import (
	"time"

	"elite-customer/internal/models"
)

// DemoJobID is the fixed job the demo fixtures describe.
const DemoJobID = "7b4803e7-acc1-4d76-a98f-01731014fa74"

func demoUser() *models.UserProfile {
	return &models.UserProfile{
		Name:  "John",
		Phone: "+44 7700 900123",
	}
}

func demoJobSummary() *models.JobSummary {
	return &models.JobSummary{
		Status:            "In Production",
		EstimatedDelivery: "Dec 30, 2024",
	}
}

func demoFeatures() []models.FeatureCard {
	return []models.FeatureCard{
		{Icon: "MdTimeline", Title: "Track Progress", Route: "/progress"},
		{Icon: "MdChatBubbleOutline", Title: "Chat with Designer", Route: "/chat"},
		{Icon: "MdPayment", Title: "View Payments", Route: "/payments"},
		{Icon: "MdNotifications", Title: "Notifications", Route: "/notifications"},
	}
}

func demoProgressSteps() []models.ProgressStep {
	return []models.ProgressStep{
		{Label: "Order Received", Date: "2024-12-20", Status: models.StatusDone, Description: "Your order has been confirmed"},
		{Label: "Design Started", Date: "2024-12-21", Status: models.StatusDone, Description: "Designer assigned to your project"},
		{Label: "Design Review", Date: "2024-12-23", Status: models.StatusInProgress, Description: "Awaiting your feedback on designs"},
		{Label: "Production", Date: "", Status: models.StatusPending, Description: "Manufacturing process"},
		{Label: "Delivery", Date: "", Status: models.StatusPending, Description: "Shipping to your address"},
	}
}

func demoPaymentSummary() *models.PaymentSummary {
	return &models.PaymentSummary{Total: 5000, Paid: 2500, Due: 2500}
}

func demoPaymentHistory() []models.PaymentEntry {
	return []models.PaymentEntry{
		{Date: "2024-12-20", Amount: 2500, Status: models.PaymentPaid},
		{Date: "2024-12-25", Amount: 2500, Status: models.PaymentDue},
	}
}

func demoNotifications() []models.NotificationEntry {
	return []models.NotificationEntry{
		{Icon: "MdDesignServices", Message: "New design ready for review", Date: "2024-12-23"},
		{Icon: "MdPayment", Message: "Payment of €2,500 is due", Date: "2024-12-25"},
		{Icon: "MdUpdate", Message: "Your order status has been updated", Date: "2024-12-22"},
	}
}

func demoChatMessages(now time.Time) []models.ChatMessage {
	return []models.ChatMessage{
		{
			ID:        "1",
			Text:      "Hello! I'm Sarah, your dedicated designer. I'm excited to work on your project!",
			Sender:    models.SenderDesigner,
			Timestamp: now.Add(-time.Hour),
			Delivery:  models.DeliveryConfirmed,
		},
		{
			ID:        "2",
			Text:      "Hi Sarah! Looking forward to seeing the designs.",
			Sender:    models.SenderCustomer,
			Timestamp: now.Add(-58 * time.Minute),
			Delivery:  models.DeliveryConfirmed,
		},
		{
			ID:              "3",
			Text:            "Here's the first design concept for your review:",
			Sender:          models.SenderDesigner,
			Timestamp:       now.Add(-30 * time.Minute),
			ImageURL:        "https://picsum.photos/400/300",
			IsDesignPreview: true,
			Delivery:        models.DeliveryConfirmed,
		},
	}
}
