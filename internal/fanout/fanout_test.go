// internal/fanout/fanout_test.go
package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediarelay/internal/chat"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/models"
)

type fakeClient struct {
	channels map[string]*chat.Channel
	sendErr  map[string]error
	sent     []string
	messages map[string]*models.NotificationMessage
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		channels: make(map[string]*chat.Channel),
		sendErr:  make(map[string]error),
		messages: make(map[string]*models.NotificationMessage),
	}
}

func (f *fakeClient) FetchChannel(_ context.Context, channelID string) (*chat.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("channel not found")
	}
	return ch, nil
}

func (f *fakeClient) SendMessage(_ context.Context, channelID string, msg *models.NotificationMessage) error {
	if err := f.sendErr[channelID]; err != nil {
		return err
	}
	f.sent = append(f.sent, channelID)
	f.messages[channelID] = msg
	return nil
}

func (f *fakeClient) SendText(context.Context, string, string) error {
	return nil
}

func (f *fakeClient) SendFile(context.Context, string, string, []byte, string) error {
	return nil
}

type fakeSubs struct {
	subs map[string]models.Subscription
	err  error
}

func (f *fakeSubs) GetWebhookSource(context.Context, models.Source) (map[string]models.Subscription, error) {
	return f.subs, f.err
}

func testMessage() *models.NotificationMessage {
	return &models.NotificationMessage{
		Title:  "Download complete",
		Footer: models.Footer{Text: "Radarr"},
	}
}

func newTestFanout(t *testing.T, client *fakeClient, subs SubscriptionSource, adminChannelID string) (*Fanout, *chat.Resolver) {
	log := logger.NewTestLogger(t)
	resolver := chat.NewResolver(client, log)
	return New(client, resolver, subs, nil, adminChannelID, log), resolver
}

func TestDeliver_PartialFailure(t *testing.T) {
	client := newFakeClient()
	client.channels["admin-chan"] = &chat.Channel{ID: "admin-chan", Name: "notifications"}

	subs := &fakeSubs{subs: map[string]models.Subscription{
		"guild-a": {ChannelID: "chan-a", GuildName: "Alpha", ChannelName: "media"},
		"guild-b": {ChannelID: "chan-b", GuildName: "Beta", ChannelName: "media"},
	}}

	f, resolver := newTestFanout(t, client, subs, "admin-chan")
	// Only guild-a's channel is cached; guild-b must fail on the
	// cache-only path.
	resolver.Prime(&chat.Channel{ID: "chan-a", GuildID: "guild-a", Name: "media"})

	result := f.Deliver(context.Background(), models.SourceRadarr, testMessage(), nil)
	require.NotNil(t, result)

	assert.Equal(t, []string{"Alpha - #media", "Admin - default channel"}, result.Success)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "media on Beta")
	assert.Equal(t, 2, result.TotalSent)
}

func TestDeliver_AdminFooterCountsSubscribersOnly(t *testing.T) {
	client := newFakeClient()
	client.channels["admin-chan"] = &chat.Channel{ID: "admin-chan", Name: "notifications"}

	subs := &fakeSubs{subs: map[string]models.Subscription{
		"guild-a": {ChannelID: "chan-a", GuildName: "Alpha", ChannelName: "media"},
	}}

	f, resolver := newTestFanout(t, client, subs, "admin-chan")
	resolver.Prime(&chat.Channel{ID: "chan-a", GuildID: "guild-a", Name: "media"})

	f.Deliver(context.Background(), models.SourceRadarr, testMessage(), nil)

	adminMsg := client.messages["admin-chan"]
	require.NotNil(t, adminMsg)
	assert.Equal(t, "Radarr • [RADARR] delivered to 1 server(s)", adminMsg.Footer.Text)

	// The subscriber copy keeps the original footer.
	subMsg := client.messages["chan-a"]
	require.NotNil(t, subMsg)
	assert.Equal(t, "Radarr", subMsg.Footer.Text)
}

func TestDeliver_SendFailureIsCollected(t *testing.T) {
	client := newFakeClient()
	client.channels["admin-chan"] = &chat.Channel{ID: "admin-chan"}
	client.sendErr["chan-a"] = errors.New("rate limited")

	subs := &fakeSubs{subs: map[string]models.Subscription{
		"guild-a": {ChannelID: "chan-a", GuildName: "Alpha", ChannelName: "media"},
	}}

	f, resolver := newTestFanout(t, client, subs, "admin-chan")
	resolver.Prime(&chat.Channel{ID: "chan-a", GuildID: "guild-a", Name: "media"})

	result := f.Deliver(context.Background(), models.SourceSonarr, testMessage(), nil)

	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "rate limited")
	assert.Equal(t, 1, result.TotalSent, "admin copy still delivered")
}

func TestDeliver_SubscriptionLookupFailure(t *testing.T) {
	client := newFakeClient()
	client.channels["admin-chan"] = &chat.Channel{ID: "admin-chan"}

	subs := &fakeSubs{err: errors.New("redis down")}

	f, _ := newTestFanout(t, client, subs, "admin-chan")

	result := f.Deliver(context.Background(), models.SourceTdarr, testMessage(), nil)

	require.NotEmpty(t, result.Failed)
	assert.Contains(t, result.Failed[0], "redis down")
	// Admin copy is still attempted.
	assert.Equal(t, 1, result.TotalSent)
}

func TestDeliver_NoAdminChannelConfigured(t *testing.T) {
	client := newFakeClient()
	subs := &fakeSubs{subs: map[string]models.Subscription{}}

	f, _ := newTestFanout(t, client, subs, "")

	result := f.Deliver(context.Background(), models.SourceOverseerr, testMessage(), nil)
	assert.Equal(t, 0, result.TotalSent)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "not configured")
}

func TestDeliver_DeterministicOrder(t *testing.T) {
	client := newFakeClient()
	client.channels["admin-chan"] = &chat.Channel{ID: "admin-chan"}

	subs := &fakeSubs{subs: map[string]models.Subscription{
		"guild-c": {ChannelID: "chan-c", GuildName: "Gamma", ChannelName: "media"},
		"guild-a": {ChannelID: "chan-a", GuildName: "Alpha", ChannelName: "media"},
		"guild-b": {ChannelID: "chan-b", GuildName: "Beta", ChannelName: "media"},
	}}

	f, resolver := newTestFanout(t, client, subs, "admin-chan")
	for _, id := range []string{"chan-a", "chan-b", "chan-c"} {
		resolver.Prime(&chat.Channel{ID: id, Name: "media"})
	}

	result := f.Deliver(context.Background(), models.SourceRadarr, testMessage(), nil)
	assert.Equal(t, []string{"Alpha - #media", "Beta - #media", "Gamma - #media", "Admin - default channel"}, result.Success)
}

type recordingAuditor struct {
	payloads int
	outcomes int
}

func (a *recordingAuditor) RecordPayload(context.Context, models.Source, json.RawMessage) {
	a.payloads++
}

func (a *recordingAuditor) RecordOutcome(context.Context, models.Source, *models.DeliveryResult) {
	a.outcomes++
}

func TestDeliver_AuditorInvoked(t *testing.T) {
	client := newFakeClient()
	client.channels["admin-chan"] = &chat.Channel{ID: "admin-chan"}
	subs := &fakeSubs{subs: map[string]models.Subscription{}}

	log := logger.NewTestLogger(t)
	resolver := chat.NewResolver(client, log)
	auditor := &recordingAuditor{}
	f := New(client, resolver, subs, auditor, "admin-chan", log)

	f.Deliver(context.Background(), models.SourceTdarr, testMessage(), json.RawMessage(`{"event":"file_processed"}`))
	assert.Equal(t, 1, auditor.payloads)
	assert.Equal(t, 1, auditor.outcomes)
}

func TestAppendFooter(t *testing.T) {
	assert.Equal(t, "suffix", AppendFooter("", "suffix"))
	assert.Equal(t, "Radarr • suffix", AppendFooter("Radarr", "suffix"))
}
