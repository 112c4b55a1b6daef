package address

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/01310100/json/":
			w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
		case "/99999999/json/":
			w.Write([]byte(`{"erro":"true"}`))
		case "/88888888/json/":
			w.Write([]byte(`{"erro":true}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestViaCEP_Resolve(t *testing.T) {
	srv := newTestServer(t)
	r := NewViaCEP(srv.URL+"/", time.Second)

	got, err := r.Resolve(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, &Lookup{
		PostalCode:   "01310-100",
		Street:       "Avenida Paulista",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}, got)
}

func TestViaCEP_NotFound(t *testing.T) {
	srv := newTestServer(t)
	r := NewViaCEP(srv.URL, time.Second)

	_, err := r.Resolve(context.Background(), "99999-999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "88888888")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViaCEP_Errors(t *testing.T) {
	srv := newTestServer(t)
	r := NewViaCEP(srv.URL, time.Second)

	_, err := r.Resolve(context.Background(), "0131")
	assert.ErrorIs(t, err, ErrInvalidPostalCode)

	_, err = r.Resolve(context.Background(), "12345678")
	assert.ErrorIs(t, err, ErrLookupFailed)
}
