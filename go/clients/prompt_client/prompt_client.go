package prompt_client

import (
	"github.com/mcdev12/teamquiz/go/clients"
)

type PromptClient struct {
	*clients.BaseClient
}

func NewPromptClient(baseURL string) *PromptClient {
	client := &PromptClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(ContentTypeHeader, ContentTypeJSON)

	return client
}
