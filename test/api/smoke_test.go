package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/gin-gonic/gin"

	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/dao/mysql/repository/memory"
	"dingcan_server/internal/handler"
	"dingcan_server/internal/https_server"
	"dingcan_server/internal/infrastructure/email"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service"
	"dingcan_server/pkg/util/jwt"
)

const testSecret = "smoke-test-secret"

// apiEnvelope 统一响应信封
type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  any             `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// nopCache 测试用缓存实现，SubmitTask 同步执行
type nopCache struct{}

func (nopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (nopCache) Get(ctx context.Context, key string) (string, error)                 { return "", nil }
func (nopCache) GetOrError(ctx context.Context, key string) (string, error) {
	return "", context.Canceled
}
func (nopCache) Delete(ctx context.Context, key string) error                  { return nil }
func (nopCache) DeleteByPattern(ctx context.Context, pattern string) error     { return nil }
func (nopCache) DeleteByPatterns(ctx context.Context, patterns []string) error { return nil }
func (nopCache) SubmitTask(action func())                                      { action() }

// nopDispatcher 测试用邀请投递器，不真正发信
type nopDispatcher struct{}

func (nopDispatcher) Dispatch(mail email.InvitationMail) {}
func (nopDispatcher) Close()                             {}

var (
	setupOnce sync.Once
	engine    *gin.Engine
	repos     *repository.Repositories
)

// setup 在内存仓储上拉起完整的 HTTP 栈
func setup(t *testing.T) {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		jwt.Init(testSecret)
		if err := handler.InitTrans("zh"); err != nil {
			t.Fatal(err)
		}

		repos = memory.NewRepositories()
		service.InitServices(repos, nopCache{}, nopDispatcher{})
		handlers := handler.NewHandlers(service.Svc)
		engine = https_server.Init(handlers, repos.User)
	})
}

// signToken 模拟外部身份服务签发的令牌
func signToken(t *testing.T, userId string) string {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userId,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// createUser 直接落库一个用户
func createUser(t *testing.T, uuid, name string) {
	t.Helper()
	if err := repos.User.Create(&model.UserInfo{
		Uuid: uuid, Email: uuid + "@test.com", FullName: name,
	}); err != nil {
		t.Fatal(err)
	}
}

// doRequest 发起一次带令牌的请求并解析响应信封
func doRequest(t *testing.T, method, path, token string, body any) (int, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var envelope apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("响应不是合法 JSON: %s", rec.Body.String())
	}
	return rec.Code, envelope
}

// 测试未携带令牌的请求被拒绝
func TestAuthRequired(t *testing.T) {
	setup(t)

	status, _ := doRequest(t, http.MethodGet, "/group/loadMyGroups", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("未认证请求应返回 401，实际 %d", status)
	}
}

// 测试参数校验失败返回 422 与业务码 1001
func TestValidationError(t *testing.T) {
	setup(t)
	createUser(t, "U_VAL", "校验用户")
	token := signToken(t, "U_VAL")

	status, envelope := doRequest(t, http.MethodPost, "/group/createGroup", token, map[string]any{})
	if status != http.StatusUnprocessableEntity {
		t.Errorf("参数缺失应返回 422，实际 %d", status)
	}
	if envelope.Code != 1001 {
		t.Errorf("业务码应为 1001，实际 %d", envelope.Code)
	}
}

// 冒烟流程：建群 -> 发起拼单 -> 点餐 -> 查详情 -> 查余额
func TestGroupOrderFlow(t *testing.T) {
	setup(t)
	createUser(t, "U_FLOW", "流程用户")
	token := signToken(t, "U_FLOW")

	// 建群
	status, envelope := doRequest(t, http.MethodPost, "/group/createGroup", token, map[string]any{
		"name": "冒烟测试群",
	})
	if status != http.StatusOK || envelope.Code != 1000 {
		t.Fatalf("建群失败: status=%d envelope=%+v", status, envelope)
	}
	var group struct {
		Uuid string `json:"uuid"`
	}
	if err := json.Unmarshal(envelope.Data, &group); err != nil || group.Uuid == "" {
		t.Fatalf("建群响应缺少 uuid: %s", envelope.Data)
	}

	// 尚无进行中的拼单
	status, envelope = doRequest(t, http.MethodGet, "/order/active?group_id="+group.Uuid, token, nil)
	if status != http.StatusOK || string(envelope.Data) != "null" {
		t.Errorf("无进行中拼单时 data 应为 null: status=%d data=%s", status, envelope.Data)
	}

	// 发起拼单
	status, envelope = doRequest(t, http.MethodPost, "/order/create", token, map[string]any{
		"group_id": group.Uuid,
	})
	if status != http.StatusOK || envelope.Code != 1000 {
		t.Fatalf("发起拼单失败: status=%d envelope=%+v", status, envelope)
	}
	var order struct {
		Uuid string `json:"uuid"`
	}
	if err := json.Unmarshal(envelope.Data, &order); err != nil || order.Uuid == "" {
		t.Fatalf("拼单响应缺少 uuid: %s", envelope.Data)
	}

	// 重复发起被拒绝
	status, _ = doRequest(t, http.MethodPost, "/order/create", token, map[string]any{
		"group_id": group.Uuid,
	})
	if status != http.StatusConflict {
		t.Errorf("重复发起拼单应返回 409，实际 %d", status)
	}

	// 点餐
	status, envelope = doRequest(t, http.MethodPost, "/order/addItem", token, map[string]any{
		"group_id": group.Uuid,
		"order_id": order.Uuid,
		"name":     "麻辣香锅",
		"price":    "32.50",
		"quantity": 1,
	})
	if status != http.StatusOK || envelope.Code != 1000 {
		t.Fatalf("点餐失败: status=%d envelope=%+v", status, envelope)
	}

	// 查详情
	status, envelope = doRequest(t, http.MethodGet,
		"/order/detail?group_id="+group.Uuid+"&order_id="+order.Uuid, token, nil)
	if status != http.StatusOK {
		t.Fatalf("查详情失败: status=%d", status)
	}
	var detail struct {
		TotalAmount string `json:"total_amount"`
	}
	if err := json.Unmarshal(envelope.Data, &detail); err != nil {
		t.Fatal(err)
	}
	if detail.TotalAmount != "32.50" {
		t.Errorf("拼单合计应为 32.50，实际 %s", detail.TotalAmount)
	}

	// 查本人余额，未结算应为零
	status, envelope = doRequest(t, http.MethodGet, "/balance/my?group_id="+group.Uuid, token, nil)
	if status != http.StatusOK {
		t.Fatalf("查余额失败: status=%d", status)
	}
	var balance struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(envelope.Data, &balance); err != nil {
		t.Fatal(err)
	}
	if balance.Amount != "0.00" {
		t.Errorf("未结算余额应为 0.00，实际 %s", balance.Amount)
	}
}
