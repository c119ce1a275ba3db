package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hamzaalmahdi/civitai/ddd/application/cqe"
	"github.com/hamzaalmahdi/civitai/ddd/application/dto"
	"github.com/hamzaalmahdi/civitai/pkg/errno"
)

// fakeNotificationApp 记录收到的参数并返回预设结果。
type fakeNotificationApp struct {
	listUserID int64
	listReq    *cqe.GetUserNotificationsReq
	listResp   *dto.GetUserNotificationsResponse

	countResp *dto.NotificationCountsDto

	markUserID int64
	markReq    *cqe.MarkReadReq
	markErr    error

	createReq  *cqe.CreateNotificationReq
	createResp *dto.EnqueueNotificationResponse

	settingTypes []string
}

func (f *fakeNotificationApp) CreateNotification(ctx context.Context, req *cqe.CreateNotificationReq) (*dto.EnqueueNotificationResponse, error) {
	f.createReq = req
	if f.createResp != nil {
		return f.createResp, nil
	}
	return &dto.EnqueueNotificationResponse{Queued: true, Key: req.Key}, nil
}

func (f *fakeNotificationApp) GetUserNotifications(ctx context.Context, userID int64, req *cqe.GetUserNotificationsReq) (*dto.GetUserNotificationsResponse, error) {
	f.listUserID = userID
	f.listReq = req
	if f.listResp != nil {
		return f.listResp, nil
	}
	return &dto.GetUserNotificationsResponse{Items: []dto.NotificationDto{}}, nil
}

func (f *fakeNotificationApp) GetUserNotificationCount(ctx context.Context, userID int64, req *cqe.GetNotificationCountReq) (*dto.NotificationCountsDto, error) {
	if f.countResp != nil {
		return f.countResp, nil
	}
	return &dto.NotificationCountsDto{Counts: map[string]int64{}}, nil
}

func (f *fakeNotificationApp) MarkNotificationsRead(ctx context.Context, userID int64, req *cqe.MarkReadReq) error {
	f.markUserID = userID
	f.markReq = req
	return f.markErr
}

func (f *fakeNotificationApp) CreateUserNotificationSetting(ctx context.Context, userID int64, req *cqe.CreateUserNotificationSettingReq) error {
	f.settingTypes = req.Types
	return nil
}

func (f *fakeNotificationApp) DeleteUserNotificationSetting(ctx context.Context, userID int64, req *cqe.DeleteUserNotificationSettingReq) error {
	f.settingTypes = req.Types
	return nil
}

func (f *fakeNotificationApp) ListUserNotificationSettings(ctx context.Context, userID int64) ([]dto.UserNotificationSettingDto, error) {
	return []dto.UserNotificationSettingDto{}, nil
}

func newTestRouter(fake *fakeNotificationApp) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := &notificationControllerImpl{app: fake}
	ctrl.RegisterInnerApi(router.Group("/api"))
	return router
}

func doRequest(router *gin.Engine, method, target, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %q: %v", w.Body.String(), err)
	}
	return env
}

func TestListBindsQueryAndUser(t *testing.T) {
	fake := &fakeNotificationApp{}
	router := newTestRouter(fake)

	w := doRequest(router, http.MethodGet, "/api/notification/v1/inner/notifications?category=Comment&unread=true&limit=5&with_count=true", "42", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Code != 200 || env.Message != "Success" {
		t.Fatalf("envelope = %+v", env)
	}
	if fake.listUserID != 42 {
		t.Fatalf("user id = %d, want 42", fake.listUserID)
	}
	req := fake.listReq
	if req.Category != "Comment" || !req.Unread || req.Limit != 5 || !req.WithCount {
		t.Fatalf("bound query = %+v", req)
	}
}

func TestListRejectsMissingUser(t *testing.T) {
	router := newTestRouter(&fakeNotificationApp{})

	w := doRequest(router, http.MethodGet, "/api/notification/v1/inner/notifications", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != 400 || !strings.Contains(env.Message, "user id") {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestListRejectsBadUser(t *testing.T) {
	router := newTestRouter(&fakeNotificationApp{})

	for _, uid := range []string{"abc", "0", "-3"} {
		w := doRequest(router, http.MethodGet, "/api/notification/v1/inner/notifications", uid, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("user id %q: status = %d, want 400", uid, w.Code)
		}
	}
}

func TestMarkReadPropagatesErrors(t *testing.T) {
	fake := &fakeNotificationApp{markErr: errno.ErrUnauthorized}
	router := newTestRouter(fake)

	w := doRequest(router, http.MethodPost, "/api/notification/v1/inner/notifications/read", "42", `{"all":true}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != 401 || env.Message != "Unauthorized" {
		t.Fatalf("envelope = %+v", env)
	}
	if fake.markReq == nil || !fake.markReq.All {
		t.Fatalf("bound body = %+v", fake.markReq)
	}
}

func TestMarkReadRejectsBrokenBody(t *testing.T) {
	router := newTestRouter(&fakeNotificationApp{})

	w := doRequest(router, http.MethodPost, "/api/notification/v1/inner/notifications/read", "42", `{broken`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreatePassesPayloadThrough(t *testing.T) {
	fake := &fakeNotificationApp{}
	router := newTestRouter(fake)

	body := `{"key":"comment:9","type":"new-comment","user_ids":[1,2],"sender_user_id":5,"details":{"modelId":9}}`
	w := doRequest(router, http.MethodPost, "/api/notification/v1/inner/notifications", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	req := fake.createReq
	if req == nil || req.Key != "comment:9" || req.Type != "new-comment" || req.SenderUserID != 5 {
		t.Fatalf("bound request = %+v", req)
	}
	if len(req.UserIDs) != 2 {
		t.Fatalf("user ids = %v", req.UserIDs)
	}

	env := decodeEnvelope(t, w)
	var resp dto.EnqueueNotificationResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if !resp.Queued || resp.Key != "comment:9" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSettingsBindTypes(t *testing.T) {
	fake := &fakeNotificationApp{}
	router := newTestRouter(fake)

	w := doRequest(router, http.MethodPost, "/api/notification/v1/inner/notifications/settings", "42", `{"types":["new-comment","new-review"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(fake.settingTypes) != 2 || fake.settingTypes[0] != "new-comment" {
		t.Fatalf("types = %v", fake.settingTypes)
	}
}
