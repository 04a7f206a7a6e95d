package report_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tillbook/tillbook/internal/balance"
	"github.com/tillbook/tillbook/internal/http/report"
)

func TestHandler_RebuildBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := balance.NewMockRepository(ctrl)
	repo.EXPECT().RebuildBalances(gomock.Any()).Return(int64(4), nil)

	h := report.NewHandler(nil, nil, balance.NewCalculator(repo))

	router := chi.NewRouter()
	router.Route("/", h.Routes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rebuild-balances", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccountsUpdated int64 `json:"accounts_updated"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(4), resp.AccountsUpdated)
}
