package httpx_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator"
	sagasqlite "github.com/jcmexdev/ecommerce-storefront/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/constants"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/payment"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/store"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

// visitor is a browser with its own cookie jar that does not follow redirects.
type visitor struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (v *visitor) get(path string) (*http.Response, string) {
	v.t.Helper()
	resp, err := v.client.Get(v.base + path)
	require.NoError(v.t, err)
	return resp, readBody(v.t, resp)
}

func (v *visitor) post(path string, form url.Values) (*http.Response, string) {
	v.t.Helper()
	resp, err := v.client.PostForm(v.base+path, form)
	require.NoError(v.t, err)
	return resp, readBody(v.t, resp)
}

func (v *visitor) sessionID() string {
	u, _ := url.Parse(v.base)
	for _, c := range v.client.Jar.Cookies(u) {
		if c.Name == constants.CookieSession {
			return c.Value
		}
	}
	return ""
}

func (v *visitor) cart() httpx.CartResponse {
	v.t.Helper()
	resp, body := v.get("/api/cart")
	require.Equal(v.t, http.StatusOK, resp.StatusCode)
	var out httpx.CartResponse
	require.NoError(v.t, json.Unmarshal([]byte(body), &out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

type handlerSuite struct {
	suite.Suite

	kv     *store.Memory
	widget *payment.Widget
	srv    *httptest.Server
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	renderer, err := view.NewRenderer()
	s.Require().NoError(err)

	s.kv = store.NewMemory()
	s.widget = payment.NewWidget("test-secret")
	checkout := coordinator.NewCheckout(coordinator.DefaultConfig(), s.widget)

	handler := httpx.NewHandler(s.kv, checkout, s.widget, renderer, time.Minute)
	s.srv = httptest.NewServer(httpx.NewRouter(handler, nil))
}

func (s *handlerSuite) TearDownTest() {
	s.srv.Close()
}

func (s *handlerSuite) newVisitor() *visitor {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &visitor{
		t:    s.T(),
		base: s.srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *handlerSuite) TestHealthAndRoot() {
	v := s.newVisitor()

	resp, body := v.get("/health")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"status":"ok"}`, body)

	resp, _ = v.get("/")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/products", resp.Header.Get("Location"))
}

func (s *handlerSuite) TestSessionCookie() {
	v := s.newVisitor()

	resp, body := v.get("/products")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Our Cricket Bats")
	s.NotEmpty(resp.Header.Get("X-Request-Id"))

	sid := v.sessionID()
	s.NotEmpty(sid)

	resp, _ = v.get("/products")
	s.Empty(resp.Cookies(), "an existing session is kept")
	s.Equal(sid, v.sessionID())
}

func (s *handlerSuite) TestProductErrors() {
	v := s.newVisitor()

	resp, _ := v.get("/products/99")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body := v.get("/products/abc")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"invalid_product_id"}`, body)
}

func (s *handlerSuite) TestAddToCart_Merges() {
	v := s.newVisitor()

	resp, _ := v.post("/products/1/cart", url.Values{"return_to": {"/products"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/products", resp.Header.Get("Location"))

	_, body := v.get("/products")
	s.Contains(body, `id="cart-count" class="badge bg-primary">1<`)
	s.Contains(body, "Cricket Secret Professional Elite added to cart!")

	v.post("/products/1/cart", nil)
	c := v.cart()
	s.Equal(1, c.Count)
	s.Require().Len(c.Items, 1)
	s.Equal(2, c.Items[0].Quantity)
	s.True(decimal.NewFromInt(46900).Equal(c.Total), "total %s", c.Total)
	s.True(c.Total.Equal(c.Subtotal))
}

func (s *handlerSuite) TestCustomization() {
	v := s.newVisitor()

	resp, _ := v.post("/products/1/customization", url.Values{
		"willow_type": {"premium_english_willow"},
		"grip_color":  {"red"},
	})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/products/1", resp.Header.Get("Location"))

	_, body := v.get("/products/1")
	s.Contains(body, `id="product-price">₹35,678`)

	v.post("/products/1/cart", nil)
	c := v.cart()
	s.Require().Len(c.Items, 1)
	s.Equal(entity.Customization{"willow_type": "premium_english_willow", "grip_color": "red"}, c.Items[0].Customization)
	s.True(decimal.NewFromInt(23450).Equal(c.Items[0].Price), "catalog price is charged")

	_, body = v.get("/products/1")
	s.Contains(body, `id="product-price">₹23,450`, "draft is cleared after add")

	v.post("/products/1/cart", url.Values{"return_to": {"/products/1"}})
	s.Equal(2, v.cart().Items[0].Quantity)
}

func (s *handlerSuite) TestCustomization_PriceFragment() {
	v := s.newVisitor()

	resp, body := v.post("/products/2/customization", url.Values{
		"willow_type": {"duo_core_willow"},
		"fragment":    {"price"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("₹28,999", body)

	resp, body = v.post("/products/2/customization", url.Values{
		"willow_type": {"bamboo"},
		"fragment":    {"price"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Empty(body)

	_, page := v.get("/products/2")
	s.Contains(page, "Price for this willow type is not available.")
	s.Contains(page, `id="product-price">₹28,999`, "unknown value keeps the catalog price")
}

func (s *handlerSuite) TestSetQuantity() {
	v := s.newVisitor()
	v.post("/products/3/cart", nil)

	resp, _ := v.post("/cart/items/3/quantity", url.Values{"quantity": {"3"}, "return_to": {"/cart"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/cart", resp.Header.Get("Location"))
	s.Equal(3, v.cart().Items[0].Quantity)

	resp, body := v.post("/cart/items/3/quantity", url.Values{
		"quantity":  {"4"},
		"return_to": {"/cart"},
		"fragment":  {"cart"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `id="cart-container"`)
	s.Contains(body, "Qty: 4")
	s.Equal("1", resp.Header.Get("X-Cart-Count"))

	resp, body = v.post("/cart/items/3/quantity", url.Values{"quantity": {"many"}})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"invalid_quantity"}`, body)

	v.post("/cart/items/3/quantity", url.Values{"quantity": {"0"}, "return_to": {"/cart"}})
	s.Empty(v.cart().Items)
}

func (s *handlerSuite) TestRemoveItem() {
	v := s.newVisitor()
	v.post("/products/1/cart", nil)
	v.post("/products/2/cart", nil)

	resp, body := v.post("/cart/items/1/remove", url.Values{"return_to": {"/cart"}, "fragment": {"cart"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotContains(body, "Cricket Secret Professional Elite")
	s.Contains(body, "Cricket Secret Duo Core Master")

	resp, _ = v.post("/cart/items/2/remove", url.Values{"fragment": {"cart"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode, "no cart page to refresh off the cart view")

	_, page := v.get("/cart")
	s.Contains(page, "Your cart is empty")
	s.Contains(page, `style="display: none"`)
}

func (s *handlerSuite) TestReturnToMustBeLocal() {
	v := s.newVisitor()

	resp, _ := v.post("/products/1/cart", url.Values{"return_to": {"//evil.example"}})
	s.Equal("/products", resp.Header.Get("Location"))

	resp, _ = v.post("/products/1/cart", url.Values{"return_to": {"https://evil.example"}})
	s.Equal("/products", resp.Header.Get("Location"))
}

func (s *handlerSuite) TestBeginCheckout() {
	v := s.newVisitor()

	resp, _ := v.post("/checkout/begin", url.Values{"return_to": {"/cart"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/cart", resp.Header.Get("Location"))

	_, page := v.get("/cart")
	s.Contains(page, "Your cart is empty!")

	_, err := s.kv.Get(s.T().Context(), v.sessionID()+":"+store.KeyCart)
	s.ErrorIs(err, ports.ErrKeyNotFound, "empty checkout never writes the cart")

	v.post("/products/1/cart", nil)
	resp, _ = v.post("/checkout/begin", url.Values{"return_to": {"/cart"}})
	s.Equal("/checkout", resp.Header.Get("Location"))

	_, page = v.get("/checkout")
	s.Contains(page, "Cricket Secret Professional Elite &times; 1")
}

func (s *handlerSuite) TestCashOnDelivery() {
	v := s.newVisitor()
	v.post("/products/4/cart", nil)

	resp, body := v.post("/checkout/cod", url.Values{
		"name":    {"Asha Rao"},
		"email":   {"asha@example.com"},
		"phone":   {"9876543210"},
		"address": {"12 MG Road"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `http-equiv="refresh"`)
	s.Contains(body, "url=/order_confirmation?method=cod&amp;order_id=COD_")
	s.Contains(body, "Order placed successfully! You will pay on delivery.")

	s.Empty(v.cart().Items)

	order := s.lastOrder(v)
	s.Equal(entity.PaymentMethodCOD, order.Method)
	s.Equal(entity.OrderStatusConfirmed, order.Status)
	s.True(decimal.NewFromInt(12345).Equal(order.Amount))
	s.Equal("Asha Rao", order.Customer.Name)
	s.Regexp(`^COD_\d+$`, order.OrderID)
	s.Len(order.Items, 1)

	_, page := v.get("/order_confirmation?method=cod&order_id=" + order.OrderID)
	s.Contains(page, "Cash on Delivery")
	s.Contains(page, order.OrderID+"</strong> will be paid on delivery.")
	s.Contains(page, "12 MG Road")
}

func (s *handlerSuite) TestCashOnDelivery_EmptyCart() {
	v := s.newVisitor()

	resp, _ := v.post("/checkout/cod", url.Values{"name": {"Asha"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/cart", resp.Header.Get("Location"))

	resp, _ = v.get("/api/last-order")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *handlerSuite) TestOnlinePayment_Success() {
	v := s.newVisitor()
	v.post("/products/1/cart", nil)

	orderPath := s.openPayment(v)

	_, page := v.get(orderPath)
	s.Contains(page, "₹23,450")
	s.Contains(page, "Asha Rao")

	resp, body := v.post(orderPath+"/success", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "url=/order_confirmation?payment_id=pay_")
	s.Contains(body, "Payment successful! Your order has been confirmed.")
	s.Zero(s.widget.Pending())

	order := s.lastOrder(v)
	s.Equal(entity.PaymentMethodOnline, order.Method)
	s.Equal(entity.OrderStatusPaid, order.Status)
	s.True(decimal.NewFromInt(23450).Equal(order.Amount))
	s.Equal(strings.TrimPrefix(orderPath, "/checkout/payment/"), order.OrderID)
	s.NotEmpty(order.Signature)
	s.Len(order.Items, 1)
	s.Empty(v.cart().Items)

	_, page = v.get("/order_confirmation?payment_id=" + order.PaymentID)
	s.Contains(page, "Payment ID: <strong>"+order.PaymentID)

	resp, _ = v.post(orderPath+"/success", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode, "a session resolves once")
}

func (s *handlerSuite) TestOnlinePayment_FailureAndDismiss() {
	v := s.newVisitor()
	v.post("/products/2/cart", nil)

	orderPath := s.openPayment(v)
	resp, _ := v.post(orderPath+"/failure", url.Values{"description": {"Card declined"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/checkout", resp.Header.Get("Location"))

	_, page := v.get("/checkout")
	s.Contains(page, "Payment failed: Card declined")
	s.Len(v.cart().Items, 1, "failure leaves the cart alone")

	orderPath = s.openPayment(v)
	resp, _ = v.post(orderPath+"/dismiss", nil)
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	_, page = v.get("/checkout")
	s.Contains(page, "Payment cancelled. You can try again.")
	s.Len(v.cart().Items, 1)

	resp, _ = v.get("/api/last-order")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *handlerSuite) TestOnlinePayment_Guards() {
	owner := s.newVisitor()
	owner.post("/products/1/cart", nil)
	orderPath := s.openPayment(owner)

	other := s.newVisitor()
	resp, _ := other.get(orderPath)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp, _ = other.post(orderPath+"/success", nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp, _ = owner.post(orderPath+"/refund", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = owner.get("/checkout/payment/order_missing")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	s.Equal(1, s.widget.Pending())

	empty := s.newVisitor()
	resp, _ = empty.post("/checkout/online", url.Values{"name": {"Nobody"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/cart", resp.Header.Get("Location"))
	s.Equal(1, s.widget.Pending(), "empty cart opens no session")
}

func (s *handlerSuite) TestConfirmation_NoOrder() {
	v := s.newVisitor()
	_, page := v.get("/order_confirmation")
	s.Contains(page, "No recent order found.")
}

func (s *handlerSuite) TestContactAndDismiss() {
	v := s.newVisitor()

	resp, _ := v.post("/contact", url.Values{"name": {"Asha"}, "message": {"Hello"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/contact", resp.Header.Get("Location"))

	_, page := v.get("/contact")
	s.Contains(page, "Thank you for your message! We will get back to you soon.")

	m := regexp.MustCompile(`/flash/([0-9a-f-]+)/dismiss`).FindStringSubmatch(page)
	s.Require().Len(m, 2)

	resp, _ = v.post("/flash/"+m[1]+"/dismiss", url.Values{"return_to": {"/contact"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/contact", resp.Header.Get("Location"))

	_, page = v.get("/contact")
	s.NotContains(page, "Thank you for your message!")
}

func (s *handlerSuite) TestVisitorsAreIsolated() {
	a, b := s.newVisitor(), s.newVisitor()
	a.post("/products/1/cart", nil)

	s.Len(a.cart().Items, 1)
	s.Empty(b.cart().Items)
	s.NotEqual(a.sessionID(), b.sessionID())
}

// openPayment starts an online checkout and returns the widget path.
func (s *handlerSuite) openPayment(v *visitor) string {
	resp, _ := v.post("/checkout/online", url.Values{
		"name":  {"Asha Rao"},
		"email": {"asha@example.com"},
		"phone": {"9876543210"},
	})
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	s.Require().True(strings.HasPrefix(loc, "/checkout/payment/order_"), loc)
	return loc
}

func (s *handlerSuite) lastOrder(v *visitor) entity.OrderRecord {
	resp, body := v.get("/api/last-order")
	s.Require().Equal(http.StatusOK, resp.StatusCode, body)
	var order entity.OrderRecord
	s.Require().NoError(json.Unmarshal([]byte(body), &order))
	return order
}

func TestRouter_Metrics(t *testing.T) {
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	widget := payment.NewWidget("s")
	handler := httpx.NewHandler(store.NewMemory(), coordinator.NewCheckout(coordinator.DefaultConfig(), widget), widget, renderer, 0)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics")
	})
	srv := httptest.NewServer(httpx.NewRouter(handler, metrics))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	assert.Equal(t, "# metrics", readBody(t, resp))
	assert.Empty(t, resp.Cookies(), "metrics do not start a session")
}

func TestCheckoutHistory(t *testing.T) {
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	repo, err := sagasqlite.Open(filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	widget := payment.NewWidget("s")
	checkout := coordinator.NewCheckout(coordinator.DefaultConfig(), widget, coordinator.WithSagaLog(repo))
	handler := httpx.NewHandler(store.NewMemory(), checkout, widget, renderer, time.Minute).WithCheckoutLog(repo)
	srv := httptest.NewServer(httpx.NewRouter(handler, nil))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	v := &visitor{t: t, base: srv.URL, client: &http.Client{
		Jar:           jar,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}}

	_, body := v.get("/api/checkouts")
	assert.JSONEq(t, `[]`, body)

	v.post("/products/2/cart", nil)
	v.post("/checkout/cod", url.Values{"name": {"Asha Rao"}})

	resp, body := v.get("/api/checkouts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []httpx.CheckoutResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 1)
	assert.Regexp(t, `^COD_\d+$`, got[0].OrderID)
	assert.Equal(t, "COMPLETED", got[0].Status)
	assert.Empty(t, got[0].Errors)
	assert.True(t, got[0].Done)

	other, err := cookiejar.New(nil)
	require.NoError(t, err)
	stranger := &visitor{t: t, base: srv.URL, client: &http.Client{Jar: other}}
	_, body = stranger.get("/api/checkouts")
	assert.JSONEq(t, `[]`, body)
}

func TestCheckoutHistory_Disabled(t *testing.T) {
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	widget := payment.NewWidget("s")
	handler := httpx.NewHandler(store.NewMemory(), coordinator.NewCheckout(coordinator.DefaultConfig(), widget), widget, renderer, 0)
	srv := httptest.NewServer(httpx.NewRouter(handler, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/checkouts")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "checkout_log_disabled")
}
