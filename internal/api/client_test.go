package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"growbox_dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchSensorsAndStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(SensorsPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"temperature":22.5,"airHumidity":60,"soilHumidity":null,"vpd":1.05}`))
	})
	mux.HandleFunc(StatusPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"light":{"isOn":true,"onTime":"06:00","offTime":"18:00"},"humidifier":{"isOn":true,"targetAirHumidity":65}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())

	s, err := c.FetchSensors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22.5, *s.Temperature)
	assert.Nil(t, s.SoilHumidity)

	d, err := c.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "06:00", d.Light.OnTime)
	assert.Equal(t, 65.0, d.Humidifier.TargetAirHumidity)
}

func TestClient_GetErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(SensorsPath, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"SensorManager not available"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc(StatusPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"light":{}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())

	_, err := c.FetchSensors(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se), "want StatusError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)

	_, err = c.FetchStatus(context.Background())
	require.ErrorIs(t, err, ErrMalformedBody)
	require.ErrorIs(t, err, models.ErrMalformedPayload)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil)
	_, err := c.FetchSensors(context.Background())
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestClient_PostTargets(t *testing.T) {
	var got models.TargetUpdateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, TargetsPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.TargetAirHumidity > 100 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"message":"humidity out of range"}`))
			return
		}
		if got.LightOnTime == "boom" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Alvos atualizados"}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())

	resp, err := c.PostTargets(context.Background(), models.TargetUpdateRequest{TargetAirHumidity: 60, LightOnTime: "07:00", LightOffTime: "19:00"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, models.TargetUpdateResult{Success: true, Message: "Alvos atualizados"}, resp.Result)
	assert.Equal(t, models.TargetUpdateRequest{TargetAirHumidity: 60, LightOnTime: "07:00", LightOffTime: "19:00"}, got)

	resp, err = c.PostTargets(context.Background(), models.TargetUpdateRequest{TargetAirHumidity: 120})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "humidity out of range", resp.Result.Message)

	_, err = c.PostTargets(context.Background(), models.TargetUpdateRequest{LightOnTime: "boom"})
	require.ErrorIs(t, err, ErrMalformedBody)
}

func TestClient_PostTargetsRequiresResultObject(t *testing.T) {
	for _, body := range []string{`null`, `{}`, `[]`, `"ok"`, `{"message":"done"}`, `{"success":"yes"}`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.Client()).PostTargets(context.Background(), models.TargetUpdateRequest{TargetAirHumidity: 60})
			require.ErrorIs(t, err, ErrMalformedBody)
		})
	}
}

func TestClient_PostTargetsMessageOptional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, srv.Client()).PostTargets(context.Background(), models.TargetUpdateRequest{TargetAirHumidity: 60})
	require.NoError(t, err)
	assert.Equal(t, models.TargetUpdateResult{Success: true}, resp.Result)
}
