package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qport "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/queue/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/realtime"
	"github.com/LavanyaThanigaivel/GigConnect/internal/middleware"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/task"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/adapter"
	chathttp "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/presentation/http"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

const testSecret = "test-secret"

// fakeQueue records enqueued tasks instead of talking to a broker.
type fakeQueue struct {
	tasks []qport.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	q.tasks = append(q.tasks, t)
	return "task-1", nil
}

func (q *fakeQueue) Close() error { return nil }

type fixture struct {
	engine *gin.Engine
	queue  *fakeQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := adapter.NewMemoryChatRepository()
	users := userdir.NewMemoryDirectory(
		userdir.User{ID: "u1", FirstName: "Asha", LastName: "Nair", UserType: "client"},
		userdir.User{ID: "u2", FirstName: "Ben", LastName: "Okafor", UserType: "freelancer"},
		userdir.User{ID: "u3", FirstName: "Chloe", LastName: "Park", UserType: "freelancer"},
	)
	queue := &fakeQueue{}
	router := realtime.NewRouter()
	t.Cleanup(router.Close)

	engine := gin.New()
	g := engine.Group("/api/v1", middleware.JwtAuth(testSecret))
	chathttp.RegisterRoutes(g, repo, users, queue, router, nil)

	return &fixture{engine: engine, queue: queue}
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *fixture) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("Authorization", bearerToken(t, userID))
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRequireAuthentication(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/conversations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartConversationGetOrCreate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/conversation/u2", "u1", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID           string    `json:"id"`
		Participants [2]string `json:"participants"`
		Other        struct {
			ID        string `json:"id"`
			FirstName string `json:"first_name"`
		} `json:"other"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, [2]string{"u1", "u2"}, created.Participants)
	assert.Equal(t, "u2", created.Other.ID)
	assert.Equal(t, "Ben", created.Other.FirstName)

	// the other side asking for the same pair lands on the same conversation
	rec = f.do(t, http.MethodPost, "/api/v1/conversation/u1", "u2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var existing struct {
		ID    string `json:"id"`
		Other struct {
			ID string `json:"id"`
		} `json:"other"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &existing))
	assert.Equal(t, created.ID, existing.ID)
	assert.Equal(t, "u1", existing.Other.ID)
}

func TestStartConversationRejections(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/conversation/u1", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/conversation/ghost", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageEnqueuesDelivery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/messages", "u1",
		`{"receiver_id":"u2","content":"Are you available?"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sent struct {
		ID             string `json:"id"`
		ConversationID string `json:"conversation_id"`
		SenderName     string `json:"sender_name"`
		Content        string `json:"content"`
		Delivery       string `json:"delivery"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.Equal(t, "Are you available?", sent.Content)
	assert.Equal(t, "Asha Nair", sent.SenderName)
	assert.Equal(t, "queued", sent.Delivery)

	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, task.DeliverMessageTaskType, f.queue.tasks[0].Type)
	var payload task.DeliverMessagePayload
	require.NoError(t, json.Unmarshal(f.queue.tasks[0].Payload, &payload))
	assert.Equal(t, sent.ConversationID, payload.ConversationID)
	assert.Equal(t, "u2", payload.ReceiverID)
	assert.Equal(t, "Asha Nair", payload.Sender.DisplayName)
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)

	// neither target set
	rec := f.do(t, http.MethodPost, "/api/v1/messages", "u1", `{"content":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// both targets set
	rec = f.do(t, http.MethodPost, "/api/v1/messages", "u1",
		`{"receiver_id":"u2","conversation_id":"conv-1","content":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// blank content
	rec = f.do(t, http.MethodPost, "/api/v1/messages", "u1",
		`{"receiver_id":"u2","content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConversationAndMessageListing(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/messages", "u1",
		`{"receiver_id":"u2","content":"Are you available?"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sent struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))

	rec = f.do(t, http.MethodPost, "/api/v1/messages", "u2",
		`{"conversation_id":"`+sent.ConversationID+`","content":"Yes, what's the budget?"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/conversations", "u2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var convs []struct {
		ID          string `json:"id"`
		LastMessage string `json:"last_message"`
		Other       struct {
			FirstName string `json:"first_name"`
		} `json:"other"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convs))
	require.Len(t, convs, 1)
	assert.Equal(t, sent.ConversationID, convs[0].ID)
	assert.Equal(t, "Yes, what's the budget?", convs[0].LastMessage)
	assert.Equal(t, "Asha", convs[0].Other.FirstName)

	rec = f.do(t, http.MethodGet, "/api/v1/messages/"+sent.ConversationID, "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []struct {
		SenderID   string `json:"sender_id"`
		SenderName string `json:"sender_name"`
		Content    string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "u1", msgs[0].SenderID)
	assert.Equal(t, "Ben Okafor", msgs[1].SenderName)

	// outsiders cannot read the log
	rec = f.do(t, http.MethodGet, "/api/v1/messages/"+sent.ConversationID, "u3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMarkReadEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/messages", "u1",
		`{"receiver_id":"u2","content":"Are you available?"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sent struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))

	rec = f.do(t, http.MethodPut, "/api/v1/messages/"+sent.ConversationID+"/read", "u2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(1), out.Updated)

	// second acknowledgement is a no-op
	rec = f.do(t, http.MethodPut, "/api/v1/messages/"+sent.ConversationID+"/read", "u2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(0), out.Updated)

	rec = f.do(t, http.MethodPut, "/api/v1/messages/"+sent.ConversationID+"/read", "u3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetConversationChecks(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/conversation/u2", "u1", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(t, http.MethodGet, "/api/v1/conversation/"+created.ID, "u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/conversation/"+created.ID, "u3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/conversation/missing", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
