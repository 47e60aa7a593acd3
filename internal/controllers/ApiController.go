package controllers

import (
	"net/http"
	"time"

	"chronorise/internal/engine"
	"chronorise/internal/models"
	"chronorise/internal/providers"
	"chronorise/internal/services"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 64 << 10 // 64 KB

const listCacheKey = "list"

type ApiController struct {
	logger  providers.Logger
	service services.AlarmServiceInterface
	ringer  engine.RingerInterface
	sound   providers.SoundInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.AlarmServiceInterface, ringer engine.RingerInterface, sound providers.SoundInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		ringer:  ringer,
		sound:   sound,
		cache:   cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (*models.AlarmInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var input models.AlarmInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	return &input, true
}

func (ac *ApiController) ListAlarms(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, listCacheKey, func() (any, error) {
		return ac.service.List(), nil
	})
}

func (ac *ApiController) CreateAlarm(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	alarm, err := ac.service.Create(input)
	if err != nil {
		ac.logger.Debugf(providers.TypePost, "Rejected alarm payload: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ac.cache.Del(listCacheKey)
	ac.writeJSON(w, http.StatusCreated, alarm)
}

func (ac *ApiController) UpdateAlarm(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	if err := ac.service.Update(id, input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ac.cache.Del(listCacheKey)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ToggleAlarm(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ac.service.ToggleActive(id)
	ac.sound.Unlock()
	ac.cache.Del(listCacheKey)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) DeleteAlarm(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ac.service.Delete(id)
	ac.cache.Del(listCacheKey)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetRinging(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.ringer.Status())
}

func (ac *ApiController) Snooze(w http.ResponseWriter, r *http.Request) {
	if ac.ringer.Snooze(time.Now()) {
		ac.cache.Del(listCacheKey)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Dismiss(w http.ResponseWriter, r *http.Request) {
	ac.ringer.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Unlock(w http.ResponseWriter, r *http.Request) {
	ac.sound.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
