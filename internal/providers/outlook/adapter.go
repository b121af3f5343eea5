// Package outlook adapts Microsoft Graph to mailsweep's Source and Remover
// contracts.
package outlook

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
)

// Adapter implements cleaner.Source and cleaner.Remover for Outlook.
type Adapter struct {
	client *msgraphsdk.GraphServiceClient
}

// New signs the user in (device-code flow, cached under configDir) and builds
// a Graph client for the signed-in mailbox.
func New(ctx context.Context, clientID, configDir string) (*Adapter, error) {
	accessToken, err := signIn(ctx, clientID, configDir)
	if err != nil {
		return nil, err
	}

	cred := &staticTokenCredential{token: accessToken}
	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}
	return &Adapter{client: client}, nil
}

const listPageSize = 100

var selectFields = []string{
	"id", "conversationId", "subject", "from",
	"bodyPreview", "receivedDateTime", "isRead", "categories",
}

// FetchEmails pages through the mailbox, newest first, handing each normalized
// message to fn. Pagination follows the @odata.nextLink returned by Graph.
func (a *Adapter) FetchEmails(ctx context.Context, max int64, fn func(cleaner.Email) error) error {
	var fetched int64
	start := time.Now()

	requestConfig := &users.ItemMessagesRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemMessagesRequestBuilderGetQueryParameters{
			Top:     Int32Ptr(listPageSize),
			Select:  selectFields,
			Orderby: []string{"receivedDateTime desc"},
		},
	}

	result, err := a.client.Me().Messages().Get(ctx, requestConfig)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	for {
		for _, msg := range result.GetValue() {
			if fetched >= max {
				return nil
			}
			if err := fn(normalize(msg)); err != nil {
				return err
			}
			fetched++
			if fetched%200 == 0 {
				log.Printf("fetched %d messages (%.0fs)", fetched, time.Since(start).Seconds())
			}
		}

		next := result.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		result, err = a.client.Me().Messages().WithUrl(*next).Get(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to follow next page: %w", err)
		}
	}

	log.Printf("fetched %d messages in %.0fs", fetched, time.Since(start).Seconds())
	return nil
}

// Trash moves a message to the Deleted Items folder.
func (a *Adapter) Trash(ctx context.Context, id string) error {
	body := users.NewItemMessagesItemMovePostRequestBody()
	body.SetDestinationId(StringPtr("deleteditems"))
	if _, err := a.client.Me().Messages().ByMessageId(id).Move().Post(ctx, body, nil); err != nil {
		return fmt.Errorf("trash message %s: %w", id, err)
	}
	return nil
}

// Delete permanently removes a message.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := a.client.Me().Messages().ByMessageId(id).Delete(ctx, nil); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

// normalize converts a Graph message to the canonical Email. Graph has no
// Gmail-style tabs, so the user-assigned categories double as hints.
func normalize(m models.Messageable) cleaner.Email {
	e := cleaner.Email{
		SenderAddress: cleaner.UnknownSender,
		SenderName:    cleaner.UnknownSender,
		IsRead:        true,
	}

	if id := m.GetId(); id != nil {
		e.ID = *id
	}
	if convID := m.GetConversationId(); convID != nil {
		e.ThreadID = *convID
	}
	if subject := m.GetSubject(); subject != nil {
		e.Subject = *subject
	}
	if preview := m.GetBodyPreview(); preview != nil {
		e.Snippet = *preview
	}
	if rcvd := m.GetReceivedDateTime(); rcvd != nil {
		e.Timestamp = rcvd.UTC().Format(time.RFC3339)
	}
	if isRead := m.GetIsRead(); isRead != nil {
		e.IsRead = *isRead
	}

	if from := m.GetFrom(); from != nil {
		if emailAddr := from.GetEmailAddress(); emailAddr != nil {
			if addr := emailAddr.GetAddress(); addr != nil && *addr != "" {
				a, _ := cleaner.ParseSender(*addr)
				e.SenderAddress = a
			}
			if name := emailAddr.GetName(); name != nil && *name != "" {
				e.SenderName = *name
			} else if e.SenderAddress != cleaner.UnknownSender {
				e.SenderName = e.SenderAddress
			}
		}
	}

	for _, c := range m.GetCategories() {
		e.CategoryHints = append(e.CategoryHints, c)
	}

	return e
}

// staticTokenCredential implements Azure credential interface
type staticTokenCredential struct {
	token string
}

func (c *staticTokenCredential) GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{
		Token:     c.token,
		ExpiresOn: time.Now().Add(1 * time.Hour),
	}, nil
}

// Int32Ptr returns a pointer to an int32
func Int32Ptr(i int32) *int32 {
	return &i
}

// StringPtr returns a pointer to a string
func StringPtr(s string) *string {
	return &s
}
