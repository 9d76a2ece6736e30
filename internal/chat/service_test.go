package chat

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/internal/catalog"
	"github.com/craftline/craftline-backend/internal/session"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/logger"
)

const testBuyer = "whatsapp:+911234567890"

type sentMessage struct {
	to   string
	body string
}

type fakeNotifier struct {
	texts []sentMessage
	media []sentMessage
}

func (f *fakeNotifier) SendText(_ context.Context, to, body string) error {
	f.texts = append(f.texts, sentMessage{to: to, body: body})
	return nil
}

func (f *fakeNotifier) SendMedia(_ context.Context, to, mediaURL string) error {
	f.media = append(f.media, sentMessage{to: to, body: mediaURL})
	return nil
}

type fakeLinks struct {
	ref        string
	link       string
	err        error
	lastBuyer  string
	lastAmount int64
}

func (f *fakeLinks) NewReference(string) string { return f.ref }

func (f *fakeLinks) CreateLink(_ context.Context, _, buyer string, amountPaise int64, _ string) (string, error) {
	f.lastBuyer = buyer
	f.lastAmount = amountPaise
	if f.err != nil {
		return "", f.err
	}
	return f.link, nil
}

type testEnv struct {
	svc      *Service
	notifier *fakeNotifier
	links    *fakeLinks
	sessions *session.Store
	bills    *billing.BillArchive
}

func newTestEnv(t *testing.T, seller config.SellerConfig) *testEnv {
	t.Helper()

	if seller.Address == "" {
		seller.Address = "whatsapp:+919014056297"
	}
	notifier := &fakeNotifier{}
	links := &fakeLinks{ref: "abcd1234", link: "https://rzp.io/l/test"}
	sessions := session.NewStore(time.Hour)
	bills := billing.NewBillArchive(filepath.Join(t.TempDir(), "bills.json"))

	svc, err := NewService(ServiceParams{
		Catalog:  catalog.Default(),
		Sessions: sessions,
		Bills:    bills,
		Links:    links,
		Notifier: notifier,
		Seller:   seller,
		Buyer:    config.BuyerConfig{DefaultName: "umesh", DefaultAddress: "Gorantla, Anantapur"},
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &testEnv{svc: svc, notifier: notifier, links: links, sessions: sessions, bills: bills}
}

func (e *testEnv) lastText(t *testing.T) sentMessage {
	t.Helper()
	if len(e.notifier.texts) == 0 {
		t.Fatal("no text messages sent")
	}
	return e.notifier.texts[len(e.notifier.texts)-1]
}

func TestMenuCommand(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{})

	env.svc.HandleMessage(context.Background(), testBuyer, "1")

	msg := env.lastText(t)
	if !strings.Contains(msg.body, "Our Handmade Collection") {
		t.Fatalf("expected menu, got %q", msg.body)
	}
	if !strings.Contains(msg.body, "3. Handcrafted Mug - ₹250") {
		t.Fatalf("menu missing item line: %q", msg.body)
	}
}

func TestContactInfoCommand(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{
		OwnerName: "G.Nikhitha",
		Location:  "Tadipatri, Anantapur",
		Code2:     config.Code2ContactInfo,
	})

	env.svc.HandleMessage(context.Background(), testBuyer, "2")

	msg := env.lastText(t)
	if !strings.Contains(msg.body, "Contact Information") || !strings.Contains(msg.body, "G.Nikhitha") {
		t.Fatalf("expected contact info, got %q", msg.body)
	}
}

func TestCode2ConfirmVariant(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{Code2: config.Code2Confirm})

	env.svc.HandleMessage(context.Background(), testBuyer, "2")

	if msg := env.lastText(t); !strings.Contains(msg.body, "cart is empty") {
		t.Fatalf("expected confirm flow on empty cart, got %q", msg.body)
	}
}

func TestSelectThenConfirmIssuesLink(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{})

	env.svc.HandleMessage(context.Background(), testBuyer, "3")
	if msg := env.lastText(t); !strings.Contains(msg.body, "add more items or confirm") {
		t.Fatalf("expected add-more prompt, got %q", msg.body)
	}

	env.svc.HandleMessage(context.Background(), testBuyer, "confirm")

	texts := env.notifier.texts
	if len(texts) != 4 {
		t.Fatalf("sent %d texts, want prompt + summary + link + manual-confirm", len(texts))
	}
	summary := texts[1].body
	if !strings.Contains(summary, "Order ID: abcd1234") {
		t.Fatalf("summary missing order id: %q", summary)
	}
	if !strings.Contains(summary, "- Handcrafted Mug: ₹250") || !strings.Contains(summary, "*Total: ₹250*") {
		t.Fatalf("summary wrong: %q", summary)
	}
	if !strings.Contains(texts[2].body, "https://rzp.io/l/test") {
		t.Fatalf("link message wrong: %q", texts[2].body)
	}
	if !strings.Contains(texts[3].body, "payment_done") {
		t.Fatalf("manual confirm prompt wrong: %q", texts[3].body)
	}
	if env.links.lastAmount != 25000 {
		t.Fatalf("link amount = %d paise, want 25000", env.links.lastAmount)
	}

	// Cart survives until the payment webhook settles it.
	if got := env.sessions.Snapshot(testBuyer); len(got) != 1 {
		t.Fatalf("cart = %v, want 1 line", got)
	}
}

func TestConfirmWithEmptyCart(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{})

	env.svc.HandleMessage(context.Background(), testBuyer, "confirm")

	if msg := env.lastText(t); !strings.Contains(msg.body, "cart is empty") {
		t.Fatalf("expected empty-cart message, got %q", msg.body)
	}
	if env.links.lastAmount != 0 {
		t.Fatal("payment link created for empty cart")
	}
}

func TestConfirmLinkFailureSendsRetryNotice(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{})
	env.links.err = errors.New("gateway down")

	env.svc.HandleMessage(context.Background(), testBuyer, "4")
	env.svc.HandleMessage(context.Background(), testBuyer, "confirm")

	if msg := env.lastText(t); !strings.Contains(msg.body, "Failed to generate payment link") {
		t.Fatalf("expected retry notice, got %q", msg.body)
	}
}

func TestPaymentDoneArchivesBillAndClearsCart(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{})

	env.svc.HandleMessage(context.Background(), testBuyer, "5")
	env.svc.HandleMessage(context.Background(), testBuyer, "payment_done")

	records, err := env.bills.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("archived %d bills, want 1", len(records))
	}
	if records[0].Total != 650 || records[0].UserID != testBuyer {
		t.Fatalf("archived bill wrong: %+v", records[0])
	}

	if got := env.sessions.Snapshot(testBuyer); len(got) != 0 {
		t.Fatalf("cart not cleared: %v", got)
	}

	seller := env.lastText(t)
	if seller.to != "whatsapp:+919014056297" || !strings.Contains(seller.body, "New Order Received") {
		t.Fatalf("seller notice wrong: %+v", seller)
	}
	if !strings.Contains(seller.body, "UPI Payment ID: N/A") {
		t.Fatalf("manual confirmation should carry N/A payment id: %q", seller.body)
	}
}

func TestUnknownMessageSendsWelcome(t *testing.T) {
	env := newTestEnv(t, config.SellerConfig{})

	env.svc.HandleMessage(context.Background(), testBuyer, "  Hello There ")

	if len(env.notifier.media) != 1 {
		t.Fatalf("sent %d media messages, want 1", len(env.notifier.media))
	}
	if msg := env.lastText(t); !strings.Contains(msg.body, "Welcome to our small business") {
		t.Fatalf("expected welcome text, got %q", msg.body)
	}
}
