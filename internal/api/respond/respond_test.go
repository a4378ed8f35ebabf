package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(target string, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c, w
}

// ---------------------------------------------------------------------------
// Lang
// ---------------------------------------------------------------------------

func TestLang_QueryParamWins(t *testing.T) {
	c, _ := testContext("/?lang=en", map[string]string{"Accept-Language": "sw"})
	if got := Lang(c); got != "en" {
		t.Errorf("Lang = %q, want en (query param beats header)", got)
	}
}

func TestLang_InvalidQueryFallsThrough(t *testing.T) {
	c, _ := testContext("/?lang=de", map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	if got := Lang(c); got != "en" {
		t.Errorf("Lang = %q, want en from Accept-Language", got)
	}
}

func TestLang_DefaultSwahili(t *testing.T) {
	c, _ := testContext("/", nil)
	if got := Lang(c); got != "sw" {
		t.Errorf("Lang = %q, want sw default", got)
	}
}

// ---------------------------------------------------------------------------
// Success / Error envelope shape
// ---------------------------------------------------------------------------

func TestSuccess_EnvelopeShape(t *testing.T) {
	c, w := testContext("/?lang=en", nil)
	Success(c, http.StatusOK, "FETCH_SUCCESS", gin.H{"answer": 42})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["success"] != true {
		t.Error("success = false, want true")
	}
	if body["messageKey"] != "FETCH_SUCCESS" {
		t.Errorf("messageKey = %v, want FETCH_SUCCESS", body["messageKey"])
	}
	if body["message"] != "Loaded successfully" {
		t.Errorf("message = %v, want English resolution", body["message"])
	}
	if _, ok := body["data"]; !ok {
		t.Error("data field missing")
	}
}

func TestSuccess_NilDataOmitted(t *testing.T) {
	c, w := testContext("/", nil)
	Success(c, http.StatusOK, "FETCH_SUCCESS", nil)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if _, ok := body["data"]; ok {
		t.Error("data field present for nil payload, want omitted")
	}
}

func TestError_AbortsWithFailureEnvelope(t *testing.T) {
	c, w := testContext("/?lang=sw", nil)
	Error(c, http.StatusNotFound, "NOT_FOUND")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !c.IsAborted() {
		t.Error("Error did not abort the context")
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["success"] != false {
		t.Error("success = true, want false")
	}
	if body["message"] != "Rekodi haikupatikana" {
		t.Errorf("message = %v, want Swahili resolution", body["message"])
	}
}

// ---------------------------------------------------------------------------
// Paginated / PageParams
// ---------------------------------------------------------------------------

func TestPaginated_Shape(t *testing.T) {
	out := Paginated([]string{"a", "b"}, 2, 20, 45)

	pagination, ok := out["pagination"].(gin.H)
	if !ok {
		t.Fatal("pagination key missing or wrong type")
	}
	if pagination["page"] != 2 || pagination["per_page"] != 20 || pagination["total"] != 45 {
		t.Errorf("pagination = %v, want page=2 per_page=20 total=45", pagination)
	}
	if _, ok := out["items"]; !ok {
		t.Error("items key missing")
	}
}

func TestPageParams_Defaults(t *testing.T) {
	c, _ := testContext("/", nil)
	page, perPage, offset := PageParams(c)
	if page != 1 || perPage != 20 || offset != 0 {
		t.Errorf("PageParams = (%d, %d, %d), want (1, 20, 0)", page, perPage, offset)
	}
}

func TestPageParams_Explicit(t *testing.T) {
	c, _ := testContext("/?page=3&per_page=10", nil)
	page, perPage, offset := PageParams(c)
	if page != 3 || perPage != 10 || offset != 20 {
		t.Errorf("PageParams = (%d, %d, %d), want (3, 10, 20)", page, perPage, offset)
	}
}

func TestPageParams_CapsAndFloors(t *testing.T) {
	c, _ := testContext("/?page=-1&per_page=500", nil)
	page, perPage, offset := PageParams(c)
	if page != 1 || perPage != 20 || offset != 0 {
		t.Errorf("PageParams = (%d, %d, %d), want clamped (1, 20, 0)", page, perPage, offset)
	}
}

func TestPageParams_NonNumeric(t *testing.T) {
	c, _ := testContext("/?page=abc&per_page=xyz", nil)
	page, perPage, _ := PageParams(c)
	if page != 1 || perPage != 20 {
		t.Errorf("PageParams = (%d, %d), want defaults for non-numeric input", page, perPage)
	}
}
