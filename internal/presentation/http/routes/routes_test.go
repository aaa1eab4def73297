package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/database"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/memory"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/handler"
	"github.com/sangkips/tillpoint-api/pkg/identifier"
	"github.com/sangkips/tillpoint-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type envelope struct {
	Success bool            `json:"success"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		TillID string `json:"till_id"`
	} `json:"meta"`
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *client) do(method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (c *client) must(status int, method, path string, body any, out any) {
	c.t.Helper()
	w, env := c.do(method, path, body)
	if w.Code != status {
		c.t.Fatalf("%s %s status = %d, want %d: %s", method, path, w.Code, status, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.t.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}

func (c *client) login(email, password string) *client {
	c.t.Helper()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	anon := &client{t: c.t, router: c.router}
	anon.must(http.StatusOK, http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": password}, &out)
	return &client{t: c.t, router: c.router, token: out.AccessToken}
}

func newTestRouter(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("ADMIN_EMAIL", "admin@shop.test")
	viper.Set("ADMIN_PASSWORD", "admin-pass")
	t.Cleanup(viper.Reset)

	store := memory.NewStore()
	r := store.Repositories()
	sessions := session.NewMemoryStore()
	if err := database.SeedDefaultData(context.Background(), database.SeedRepositories{
		Users: r.Users, Roles: r.Roles, Customers: r.Customers,
		Tills: r.Tills, Products: r.Products, Composites: r.Composites,
	}); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		App:       config.AppConfig{Name: "tillpoint-test"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
		POS:       config.POSConfig{StoreName: "Test", Currency: "KES", TaxRate: decimal.NewFromInt(16), ReprintLimit: 1},
		Till:      config.TillConfig{ConfirmationPhrase: "CLOSE TILL", ReauthTTL: time.Minute},
	}
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	ids := identifier.NewGenerator(identifier.Config{
		TransactionFormat: identifier.TxPrefixRandom,
		TransactionPrefix: "TXN",
		RandomLength:      8,
		ReceiptFormat:     identifier.ReceiptPrefixNumber,
		ReceiptPrefix:     "RCP",
		Separator:         "-",
		ReceiptPadding:    6,
	})

	inventory := service.NewInventoryService(r.Products, r.Composites)
	loyalty := service.NewLoyaltyService(r.Customers, r.Loyalty, cfg.Loyalty)
	voids := service.NewVoidService(r.Voids)
	carts := service.NewCartService(store, r.Cart, inventory, voids, cfg.POS.TaxRate)
	held := service.NewHeldService(store, r.Held, r.Cart, inventory, carts, voids)
	sales := service.NewSaleService(store, r.Cart, r.Sales, r.Customers, r.Tills, inventory, loyalty, carts, ids, cfg.POS)
	tills := service.NewTillService(store, r.Tills, r.TillSessions, r.CashDrops, r.TillClosings,
		r.Sales, r.Cart, r.Held, sessions, cfg.Till)

	router := Setup(&Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(r.Users, r.Cart, sessions, jwt, cfg.Till.ReauthTTL)),
		User:     handler.NewUserHandler(service.NewUserService(r.Users, r.Roles)),
		Product:  handler.NewProductHandler(service.NewProductService(r.Products, r.Composites)),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(r.Customers), loyalty),
		Cart:     handler.NewCartHandler(carts),
		Held:     handler.NewHeldHandler(held),
		Sale:     handler.NewSaleHandler(sales),
		Till:     handler.NewTillHandler(tills),
		Void:     handler.NewVoidHandler(voids),
	}, &Deps{
		JWTManager:      jwt,
		Cfg:             cfg,
		IdempotencyRepo: r.Idempotency,
		Sessions:        sessions,
	})
	return &client{t: t, router: router}
}

func TestCashierShiftOverHTTP(t *testing.T) {
	anon := newTestRouter(t)
	admin := anon.login("admin@shop.test", "admin-pass")

	admin.must(http.StatusCreated, http.MethodPost, "/api/v1/users", gin.H{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@shop.test",
		"password": "cashier-pass", "role": "cashier",
	}, nil)
	cashier := anon.login("jane@shop.test", "cashier-pass")

	if w, _ := cashier.do(http.MethodPost, "/api/v1/tills", gin.H{"code": "T09", "name": "Side"}); w.Code != http.StatusForbidden {
		t.Errorf("cashier create till status = %d, want 403", w.Code)
	}

	var tillList []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	cashier.must(http.StatusOK, http.MethodGet, "/api/v1/tills", nil, &tillList)
	if len(tillList) != 1 {
		t.Fatalf("tills = %+v", tillList)
	}
	tillID := tillList[0].ID
	cashier.must(http.StatusOK, http.MethodPost, "/api/v1/tills/"+tillID+"/open", gin.H{"opening_float": "10.00"}, nil)

	var bread struct {
		ID string `json:"id"`
	}
	cashier.must(http.StatusOK, http.MethodGet, "/api/v1/products/code/BRD-400", nil, &bread)
	cashier.must(http.StatusOK, http.MethodPost, "/api/v1/cart/lines", gin.H{"product_id": bread.ID, "quantity": 2}, nil)

	var cart struct {
		Totals struct {
			Total float64 `json:"total"`
		} `json:"totals"`
	}
	cashier.must(http.StatusOK, http.MethodGet, "/api/v1/cart", nil, &cart)
	if cart.Totals.Total != 139.20 {
		t.Fatalf("cart total = %v, want 139.20", cart.Totals.Total)
	}

	checkout := gin.H{"payments": []gin.H{{"method": "cash", "amount": "139.20"}}}
	w, env := cashier.do(http.MethodPost, "/api/v1/checkout", checkout, "Idempotency-Key", "sale-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d: %s", w.Code, w.Body.String())
	}
	if env.Meta.TillID != tillID {
		t.Errorf("checkout meta till = %q, want %s", env.Meta.TillID, tillID)
	}
	var out struct {
		Receipt struct {
			ReceiptNo string `json:"receipt_no"`
		} `json:"receipt"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil || out.Receipt.ReceiptNo != "RCP-000001" {
		t.Fatalf("receipt = %+v, %v", out, err)
	}

	w, _ = cashier.do(http.MethodPost, "/api/v1/checkout", checkout, "Idempotency-Key", "sale-1")
	if w.Code != http.StatusCreated || w.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Errorf("retry status = %d, replayed = %q", w.Code, w.Header().Get("X-Idempotency-Replayed"))
	}
	if w, env := cashier.do(http.MethodPost, "/api/v1/checkout", checkout); w.Code != http.StatusUnprocessableEntity || env.Reason != "invalid_cart" {
		t.Errorf("second checkout = %d %q, want invalid_cart", w.Code, env.Reason)
	}

	closeBody := gin.H{"counted_cash": "149.20", "confirmation": "CLOSE TILL", "physical_count_ack": true}
	if w, env := cashier.do(http.MethodPost, "/api/v1/tills/close", closeBody); w.Code != http.StatusUnauthorized || env.Reason != "reauth_required" {
		t.Fatalf("close without re-auth = %d %q", w.Code, env.Reason)
	}
	cashier.must(http.StatusOK, http.MethodPost, "/api/v1/auth/reauth", gin.H{"password": "cashier-pass", "for_close_till": true}, nil)

	var closing struct {
		ShortageType string `json:"shortage_type"`
	}
	cashier.must(http.StatusOK, http.MethodPost, "/api/v1/tills/close", closeBody, &closing)
	if closing.ShortageType != "exact" {
		t.Errorf("shortage type = %q, want exact", closing.ShortageType)
	}

	// Everything but re-auth is refused until the cashier signs in again
	if w, env := cashier.do(http.MethodGet, "/api/v1/cart", nil); w.Code != http.StatusUnauthorized || env.Reason != "reauth_required" {
		t.Errorf("cart after close = %d %q", w.Code, env.Reason)
	}
	cashier.must(http.StatusOK, http.MethodPost, "/api/v1/auth/reauth", gin.H{"password": "cashier-pass"}, nil)
	cashier.must(http.StatusOK, http.MethodGet, "/api/v1/cart", nil, nil)

	var voids struct {
		Items []json.RawMessage `json:"items"`
	}
	admin.must(http.StatusOK, http.MethodGet, "/api/v1/voids", nil, &voids)
	if w, _ := cashier.do(http.MethodGet, "/api/v1/voids", nil); w.Code != http.StatusForbidden {
		t.Errorf("cashier voids status = %d, want 403", w.Code)
	}
}
