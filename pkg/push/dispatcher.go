package push

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/steeple/steeple/pkg/model"
)

// MaxMulticastTokens is the FCM limit on tokens per multicast request.
const MaxMulticastTokens = 500

const cleanupTimeout = 2 * time.Minute

// MulticastSender is satisfied by *messaging.Client.
type MulticastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type StaleTokenCleaner interface {
	CleanStaleTokens(ctx context.Context, tokens []string)
}

type Dispatcher struct {
	Sender  MulticastSender
	Cleaner StaleTokenCleaner

	// AppURL is prefixed to relative icons and links in the webpush block.
	AppURL string

	cleanups conc.WaitGroup
}

// ParseAppURL validates the web app base URL. FCM rejects webpush click-through
// links that are not https, and reports it per token as an invalid argument.
func ParseAppURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse app url: %w", err)
	}

	if parsed.Scheme != "https" || parsed.Host == "" {
		return "", fmt.Errorf("app url %q must be an absolute https URL", raw)
	}

	return strings.TrimSuffix(parsed.String(), "/"), nil
}

func NewDispatcher(sender MulticastSender, cleaner StaleTokenCleaner, appURL string) *Dispatcher {
	return &Dispatcher{
		Sender:  sender,
		Cleaner: cleaner,
		AppURL:  strings.TrimSuffix(appURL, "/"),
	}
}

// Dispatch sends the payload and processes the per-token results.
func (d *Dispatcher) Dispatch(ctx context.Context, payload *model.NotificationPayload) error {
	results, err := d.Send(ctx, payload)
	if err != nil {
		return err
	}

	d.HandleSendResponse(ctx, results)

	return nil
}

// Send delivers the payload to every token, one request per batch of
// MaxMulticastTokens. The results are aligned by index with payload.Tokens.
func (d *Dispatcher) Send(ctx context.Context, payload *model.NotificationPayload) ([]model.SendResult, error) {
	results := make([]model.SendResult, 0, len(payload.Tokens))

	for start := 0; start < len(payload.Tokens); start += MaxMulticastTokens {
		end := min(start+MaxMulticastTokens, len(payload.Tokens))
		batch := payload.Tokens[start:end]

		response, err := d.Sender.SendEachForMulticast(ctx, d.buildMessage(payload, batch))
		if err != nil {
			return nil, fmt.Errorf("send multicast: %w", err)
		}

		results = append(results, alignResults(batch, response)...)
	}

	return results, nil
}

// HandleSendResponse logs failures and hands stale tokens to the cleaner as a
// background task. Wait joins outstanding cleanups.
func (d *Dispatcher) HandleSendResponse(ctx context.Context, results []model.SendResult) {
	successCount := 0
	staleTokens := []string{}

	for _, result := range results {
		if result.Success {
			successCount++
			continue
		}

		log.Warn().
			Err(result.Err).
			Str("token", tokenPrefix(result.Token)).
			Str("code", string(result.ErrorCode)).
			Msg("Failed to send notification to token")

		if result.IsStale() {
			staleTokens = append(staleTokens, result.Token)
		}
	}

	sentCounter.Add(float64(successCount))
	failedCounter.Add(float64(len(results) - successCount))

	log.Info().
		Int("success", successCount).
		Int("failure", len(results)-successCount).
		Msg("Notification sent")

	if len(staleTokens) == 0 {
		return
	}

	staleTokenCounter.Add(float64(len(staleTokens)))
	log.Info().Int("count", len(staleTokens)).Msg("Cleaning stale tokens")

	cleanupContext := context.WithoutCancel(ctx)
	d.cleanups.Go(func() {
		timeoutContext, cancel := context.WithTimeout(cleanupContext, cleanupTimeout)
		defer cancel()

		d.Cleaner.CleanStaleTokens(timeoutContext, staleTokens)
	})
}

// Wait blocks until every stale token cleanup started so far has finished.
func (d *Dispatcher) Wait() {
	d.cleanups.Wait()
}

func (d *Dispatcher) buildMessage(payload *model.NotificationPayload, tokens []string) *messaging.MulticastMessage {
	data := map[string]string{}
	for key, value := range payload.Data {
		data[key] = value
	}
	data["link"] = payload.Link

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: payload.Title,
				Body:  payload.Body,
				Icon:  d.absoluteURL(payload.Icon),
				Tag:   payload.Tag,
			},
			FCMOptions: &messaging.WebpushFCMOptions{
				Link: d.absoluteURL(payload.Link),
			},
		},
	}
}

func (d *Dispatcher) absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return path
	}

	return d.AppURL + "/" + strings.TrimPrefix(path, "/")
}

func alignResults(tokens []string, response *messaging.BatchResponse) []model.SendResult {
	results := make([]model.SendResult, len(tokens))

	for i, token := range tokens {
		results[i] = model.SendResult{Token: token}

		if response == nil || i >= len(response.Responses) || response.Responses[i] == nil {
			results[i].ErrorCode = model.SendErrorUnknown
			results[i].Err = fmt.Errorf("no send response for token")
			continue
		}

		sendResponse := response.Responses[i]
		if sendResponse.Success {
			results[i].Success = true
			continue
		}

		results[i].Err = sendResponse.Error
		results[i].ErrorCode = ClassifyError(sendResponse.Error)
	}

	return results
}

func tokenPrefix(token string) string {
	prefixLen := 10
	if len(token) < prefixLen {
		return token
	}
	return token[:prefixLen] + "..."
}
