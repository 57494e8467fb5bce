package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/pkg/email"
)

const emailTimeout = 10 * time.Second

// NotificationService emails customers about their orders. Delivery is best
// effort: failures are logged and never reach the caller.
type NotificationService interface {
	OrderPlaced(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order)
}

type notificationService struct {
	users  repository.UserRepository
	mailer email.Mailer
}

// NewNotificationService returns a notifier that does nothing when mailer is nil.
func NewNotificationService(users repository.UserRepository, mailer email.Mailer) NotificationService {
	return &notificationService{users: users, mailer: mailer}
}

func (n *notificationService) OrderPlaced(ctx context.Context, order *models.Order) {

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x %d = %s\n", item.Name, item.Quantity, models.FormatMoney(item.Total()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nPayment method: %s\n", models.FormatMoney(order.Total), order.PaymentMethod)

	n.send(ctx, order, fmt.Sprintf("Order %s received", shortID(order)), b.String())
}

func (n *notificationService) OrderStatusChanged(ctx context.Context, order *models.Order) {
	n.send(ctx, order,
		fmt.Sprintf("Order %s is %s", shortID(order), order.Status),
		fmt.Sprintf("Your order %s is now %s.\n", order.ID, order.Status))
}

func (n *notificationService) send(ctx context.Context, order *models.Order, subject, content string) {

	if n.mailer == nil {
		return
	}

	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", order.ID.String()))

	ctx, cancel := utils.Detached(ctx, emailTimeout)
	defer cancel()

	user, err := n.users.GetUserByProfileID(ctx, order.ProfileID)
	if err != nil {
		logger.Warn("Skipping order email, recipient lookup failed", slog.String("error", err.Error()))
		return
	}

	req := &models.EmailNotificationRequest{
		To:      user.Email,
		Subject: subject,
		Content: fmt.Sprintf("Hi %s,\n\n%s", user.Name, content),
	}

	if err := n.mailer.Send(ctx, req); err != nil {
		logger.Warn("Failed to send order email", slog.String("error", err.Error()))
		return
	}

	logger.Info("Order email sent", slog.String("subject", subject))
}

func shortID(order *models.Order) string {
	return strings.ToUpper(order.ID.String()[:8])
}
