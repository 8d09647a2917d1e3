// Package notify tells vendors about new buyer interest through an email
// relay webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// InterestEmail is the relay payload.
type InterestEmail struct {
	To           string `json:"to"`
	Subject      string `json:"subject"`
	SolutionID   string `json:"solution_id"`
	SolutionName string `json:"solution_name"`
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Notifier posts to the relay. A Notifier without a relay URL does nothing.
type Notifier struct {
	relayURL string
	copyTo   string
	client   *http.Client
	wg       sync.WaitGroup
}

func NewNotifier(relayURL, copyTo string) *Notifier {
	return &Notifier{
		relayURL: relayURL,
		copyTo:   copyTo,
		client:   &http.Client{Timeout: sendTimeout},
	}
}

func (n *Notifier) Enabled() bool { return n != nil && n.relayURL != "" }

// InterestCreated sends the vendor notification in the background. Failures
// are logged and counted; they never reach the caller.
func (n *Notifier) InterestCreated(ctx context.Context, sol *model.Solution, in *model.Interest) {
	if !n.Enabled() || sol == nil || in == nil {
		return
	}
	to := sol.ContactEmail
	if to == "" {
		to = n.copyTo
	}
	if to == "" {
		return
	}
	msg := InterestEmail{
		To:           to,
		Subject:      fmt.Sprintf("New interest in %s", sol.SolutionName),
		SolutionID:   sol.ID,
		SolutionName: sol.SolutionName,
		CompanyName:  in.CompanyName,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Message:      in.Message,
	}
	log := logger.FromCtx(ctx).With(zap.String("interest_id", in.ID), zap.String("solution_id", sol.ID))
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()
		if err := n.send(sendCtx, msg); err != nil {
			prometheus.RecordNotifyFailure()
			log.Warn("Interest notification failed", zap.Error(err))
			return
		}
		log.Info("Interest notification sent")
	}()
}

// Wait blocks until background sends finish. Used on shutdown.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

func (n *Notifier) send(ctx context.Context, msg InterestEmail) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.relayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relay error: %s", resp.Status)
	}
	return nil
}
