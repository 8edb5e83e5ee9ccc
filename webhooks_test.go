/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package nordgeld

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/model"
)

func webhookConfig(redisAddr, url string) *config.Configuration {
	return &config.Configuration{
		Redis: config.RedisConfig{
			Dns: redisAddr,
		},
		Notification: config.Notification{Webhook: struct {
			Url     string            `json:"url"`
			Headers map[string]string `json:"headers"`
		}(struct {
			Url     string
			Headers map[string]string
		}{Url: url, Headers: nil})},
	}
}

func TestSendWebhook(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	config.MockConfig(webhookConfig(mr.Addr(), "http://localhost:5001/webhook"))

	testData := NewWebhook{
		Event: "transaction.applied",
		Payload: model.Transaction{
			TransactionID: "txn_test",
			Amount:        100,
			CreatedAt:     time.Now(),
		},
	}

	err = SendWebhook(testData)
	assert.NoError(t, err)

	// Verify that the task was enqueued
	tasks := mr.Keys()
	assert.NotEmpty(t, tasks)
}

func TestSendWebhook_NoURLConfigured(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	config.MockConfig(webhookConfig(mr.Addr(), ""))

	err = SendWebhook(NewWebhook{Event: "transaction.applied"})
	assert.NoError(t, err)
	assert.Empty(t, mr.Keys())
}

func TestProcessHTTP_DeliversPayload(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(webhookConfig("localhost:6379", "http://localhost:5001/webhook"))

	httpmock.RegisterResponder("POST", "http://localhost:5001/webhook",
		httpmock.NewStringResponder(http.StatusOK, `{"ok":true}`))

	err := processHTTP(NewWebhook{Event: "transaction.applied"})
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestProcessHTTP_RetriesServerErrors(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(webhookConfig("localhost:6379", "http://localhost:5001/webhook"))

	calls := 0
	httpmock.RegisterResponder("POST", "http://localhost:5001/webhook",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, ""), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})

	err := processHTTP(NewWebhook{Event: "transaction.applied"})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestProcessHTTP_ClientErrorDoesNotRetry(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(webhookConfig("localhost:6379", "http://localhost:5001/webhook"))

	httpmock.RegisterResponder("POST", "http://localhost:5001/webhook",
		httpmock.NewStringResponder(http.StatusBadRequest, ""))

	err := processHTTP(NewWebhook{Event: "transaction.applied"})
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
