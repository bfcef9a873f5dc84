package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{query: "", wantPage: 1, wantLimit: 10},
		{query: "?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{query: "?page=-1&limit=0", wantPage: 1, wantLimit: 10},
		{query: "?page=abc&limit=xyz", wantPage: 1, wantLimit: 10},
		{query: "?limit=500", wantPage: 1, wantLimit: MaxLimit},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/topics"+tt.query, nil)

		page, limit := ParsePage(c)
		assert.Equal(t, tt.wantPage, page, tt.query)
		assert.Equal(t, tt.wantLimit, limit, tt.query)
	}
}

func TestMailer_DisabledIsNoop(t *testing.T) {
	var nilMailer *Mailer
	assert.False(t, nilMailer.Enabled())
	assert.NoError(t, nilMailer.SendEmail("a@example.com", "s", "b"))
	assert.False(t, (&Mailer{Port: 587}).Enabled())
}
