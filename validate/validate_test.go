package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"restaurant_manager/model"
	"restaurant_manager/utils"
)

func TestDiscountValueRequiresExactlyOne(t *testing.T) {
	pct, amt := 10.0, 5.0
	cases := []struct {
		name  string
		input model.CreateDiscountInput
		ok    bool
	}{
		{"percentage", model.CreateDiscountInput{Code: "TEN", Percentage: &pct}, true},
		{"amount", model.CreateDiscountInput{Code: "FIVE", Amount: &amt}, true},
		{"both", model.CreateDiscountInput{Code: "BOTH", Percentage: &pct, Amount: &amt}, false},
		{"neither", model.CreateDiscountInput{Code: "NONE"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := DiscountValue(&tc.input)
			if (err == nil) != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, err)
			}
			if err != nil && !utils.IsKind(err, utils.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBodyStoresValidInput(t *testing.T) {
	app := fiber.New()
	app.Post("/login", Login(), func(c *fiber.Ctx) error {
		input, ok := Input[model.LoginInput](c, LoginKey)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(input.Email)
	})

	cases := []struct {
		body string
		want int
	}{
		{`{"email":"a@pho.test","password":"secret"}`, http.StatusOK},
		{`{"email":"not-an-email","password":"secret"}`, http.StatusBadRequest},
		{`{"email":"a@pho.test"}`, http.StatusBadRequest},
		{`{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, resp.StatusCode)
		}
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/orders/:orderId", func(c *fiber.Ctx) error {
		if _, err := ParamID(c, "orderId"); err != nil {
			return utils.HandleError(c, err)
		}
		return c.SendStatus(http.StatusOK)
	})
	for path, want := range map[string]int{
		"/orders/12":  http.StatusOK,
		"/orders/0":   http.StatusBadRequest,
		"/orders/abc": http.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}
