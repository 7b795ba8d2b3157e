package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/dsl"
	ginmw "github.com/reoring/vskema/middleware/gin"
)

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := dsl.Object().
		Field("name", dsl.String().Trim().MinLength(2).Required()).
		Schema()

	r := gin.New()
	r.POST("/items", ginmw.Validate(s), func(c *gin.Context) {
		v, ok := ginmw.Value(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, v)
	})
	return r
}

func do(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestValidate_OK(t *testing.T) {
	rec := do(router(), `{"name":"  ok  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"name":"ok"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestValidate_Invalid(t *testing.T) {
	rec := do(router(), `{"name":"x"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"`+vskema.StatusValidationError+`"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), vskema.CodeMinLength) {
		t.Fatalf("missing %s in %s", vskema.CodeMinLength, rec.Body.String())
	}
}

func TestValidate_Malformed(t *testing.T) {
	rec := do(router(), `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
