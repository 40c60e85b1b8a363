package push

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/steeple/steeple/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []*messaging.MulticastMessage

	// failTokens maps a token to the error FCM reports for it
	failTokens map[string]error
	err        error
}

func (s *fakeSender) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	s.messages = append(s.messages, message)

	response := &messaging.BatchResponse{}
	for _, token := range message.Tokens {
		if err, ok := s.failTokens[token]; ok {
			response.FailureCount++
			response.Responses = append(response.Responses, &messaging.SendResponse{Error: err})
		} else {
			response.SuccessCount++
			response.Responses = append(response.Responses, &messaging.SendResponse{Success: true, MessageID: "id-" + token})
		}
	}
	return response, nil
}

type mockCleaner struct {
	mock.Mock
}

func (m *mockCleaner) CleanStaleTokens(ctx context.Context, tokens []string) {
	m.Called(ctx, tokens)
}

func testPayload(tokens ...string) *model.NotificationPayload {
	return &model.NotificationPayload{
		Title:  "⛪️ New Announcement",
		Body:   "Harvest supper",
		Link:   "/?page=news",
		Icon:   "/images/icons/icon-192x192.png",
		Tag:    "news-abc",
		Tokens: tokens,
	}
}

func TestDispatcher_SendBuildsWebpushMessage(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender, &mockCleaner{}, "https://example.church/")

	payload := testPayload("t1", "t2")
	payload.Data = map[string]string{"chatId": "c1"}

	results, err := dispatcher.Send(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, sender.messages, 1)

	message := sender.messages[0]
	assert.Equal(t, []string{"t1", "t2"}, message.Tokens)
	assert.Equal(t, "⛪️ New Announcement", message.Notification.Title)
	assert.Equal(t, "Harvest supper", message.Notification.Body)
	assert.Equal(t, map[string]string{"link": "/?page=news", "chatId": "c1"}, message.Data)

	require.NotNil(t, message.Webpush)
	assert.Equal(t, "⛪️ New Announcement", message.Webpush.Notification.Title)
	assert.Equal(t, "Harvest supper", message.Webpush.Notification.Body)
	assert.Equal(t, "https://example.church/images/icons/icon-192x192.png", message.Webpush.Notification.Icon)
	assert.Equal(t, "news-abc", message.Webpush.Notification.Tag)
	assert.Equal(t, "https://example.church/?page=news", message.Webpush.FCMOptions.Link)
}

func TestDispatcher_SendBatchesAndAlignsResults(t *testing.T) {
	var tokens []string
	for i := 0; i < 1203; i++ {
		tokens = append(tokens, fmt.Sprintf("token-%04d", i))
	}
	sender := &fakeSender{failTokens: map[string]error{
		"token-0007": errors.New("boom"),
		"token-0999": errors.New("boom"),
	}}
	dispatcher := NewDispatcher(sender, &mockCleaner{}, "https://example.church")

	results, err := dispatcher.Send(context.Background(), testPayload(tokens...))
	require.NoError(t, err)

	require.Len(t, sender.messages, 3)
	assert.Len(t, sender.messages[0].Tokens, 500)
	assert.Len(t, sender.messages[1].Tokens, 500)
	assert.Len(t, sender.messages[2].Tokens, 203)

	require.Len(t, results, len(tokens))
	for i, result := range results {
		assert.Equal(t, tokens[i], result.Token)
	}
	assert.False(t, results[7].Success)
	assert.False(t, results[999].Success)
	assert.Equal(t, model.SendErrorUnknown, results[7].ErrorCode)
	assert.True(t, results[8].Success)
}

func TestDispatcher_HandleSendResponseCleansOnlyStaleTokens(t *testing.T) {
	cleaner := &mockCleaner{}
	cleaner.On("CleanStaleTokens", mock.Anything, []string{"t1", "t4"}).Return().Once()
	dispatcher := NewDispatcher(&fakeSender{}, cleaner, "https://example.church")

	dispatcher.HandleSendResponse(context.Background(), []model.SendResult{
		{Token: "t0", Success: true},
		{Token: "t1", ErrorCode: model.SendErrorInvalidToken, Err: errors.New("invalid")},
		{Token: "t2", ErrorCode: model.SendErrorUnknown, Err: errors.New("internal")},
		{Token: "t3", ErrorCode: model.SendErrorSenderMismatch, Err: errors.New("mismatch")},
		{Token: "t4", ErrorCode: model.SendErrorNotRegistered, Err: errors.New("unregistered")},
	})
	dispatcher.Wait()

	cleaner.AssertExpectations(t)
}

func TestDispatcher_HandleSendResponseWithoutStaleTokens(t *testing.T) {
	cleaner := &mockCleaner{}
	dispatcher := NewDispatcher(&fakeSender{}, cleaner, "https://example.church")

	dispatcher.HandleSendResponse(context.Background(), []model.SendResult{
		{Token: "t0", Success: true},
		{Token: "t1", ErrorCode: model.SendErrorUnknown, Err: errors.New("internal")},
	})
	dispatcher.Wait()

	cleaner.AssertNotCalled(t, "CleanStaleTokens", mock.Anything, mock.Anything)
}

func TestDispatcher_CleanupSurvivesCallerCancellation(t *testing.T) {
	cleaner := &mockCleaner{}
	cleaner.On("CleanStaleTokens", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), []string{"t1"}).Return().Once()
	dispatcher := NewDispatcher(&fakeSender{}, cleaner, "https://example.church")

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.HandleSendResponse(ctx, []model.SendResult{
		{Token: "t1", ErrorCode: model.SendErrorNotRegistered, Err: errors.New("unregistered")},
	})
	cancel()
	dispatcher.Wait()

	cleaner.AssertExpectations(t)
}

func TestDispatcher_DispatchSendFailure(t *testing.T) {
	cleaner := &mockCleaner{}
	sender := &fakeSender{err: errors.New("auth failed")}
	dispatcher := NewDispatcher(sender, cleaner, "https://example.church")

	err := dispatcher.Dispatch(context.Background(), testPayload("t1"))
	assert.ErrorIs(t, err, sender.err)

	dispatcher.Wait()
	cleaner.AssertNotCalled(t, "CleanStaleTokens", mock.Anything, mock.Anything)
}

func TestParseAppURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "https://steeple.church", want: "https://steeple.church"},
		{raw: "https://steeple.church/", want: "https://steeple.church"},
		{raw: "https://example.org/app", want: "https://example.org/app"},
		{raw: "http://steeple.church", wantErr: true},
		{raw: "steeple.church", wantErr: true},
		{raw: "https://", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAppURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcher_WebpushLinksAreHTTPS(t *testing.T) {
	appURL, err := ParseAppURL("https://steeple.church/")
	require.NoError(t, err)

	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender, &mockCleaner{}, appURL)

	payload := testPayload("t1")
	payload.Link = "/?page=chat&chatId=c1"
	_, err = dispatcher.Send(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	for _, link := range []string{
		sender.messages[0].Webpush.FCMOptions.Link,
		sender.messages[0].Webpush.Notification.Icon,
	} {
		parsed, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "https", parsed.Scheme)
		assert.Equal(t, "steeple.church", parsed.Host)
	}
	assert.Equal(t, "https://steeple.church/?page=chat&chatId=c1", sender.messages[0].Webpush.FCMOptions.Link)
}
