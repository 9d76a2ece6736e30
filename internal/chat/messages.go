package chat

import (
	"fmt"

	"github.com/craftline/craftline-backend/pkg/config"
)

const welcomeImageURL = "https://plus.unsplash.com/premium_photo-1679809447923-b3250fb2a0ce?q=80&w=2071&auto=format&fit=crop&ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D"

const welcomeText = "Welcome to our small business! We offer handcrafted goods made with love. Reply with:\n" +
	"1. View items\n" +
	"2. Contact Us"

const paymentConfirmedText = "*✅ Payment Confirmed!* Thank you for your order! 🙏"

const addMoreOrConfirmText = "Do you want to add more items or confirm your order? Reply with:\n1. Add More\n2. Confirm"

const emptyCartText = "*🛒 Your cart is empty!* Please select items from the menu."

const linkFailureText = "⚠️ Failed to generate payment link. Please try again later."

const manualConfirmText = "✅ Once paid, reply 'payment_done' to confirm manually (automatic confirmation sent after payment)."

func contactInfoText(seller config.SellerConfig) string {
	return fmt.Sprintf(
		"*📞 Contact Information:*\n\n"+
			"👩‍💼 *Owner:* %s\n"+
			"📍 *Location:* %s\n"+
			"📱 *Phone:* %s\n"+
			"📧 *Email:* %s\n"+
			"🕒 *Working Hours:* %s",
		seller.OwnerName, seller.Location, seller.Phone, seller.Email, seller.WorkingHours,
	)
}
