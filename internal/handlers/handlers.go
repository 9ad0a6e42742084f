package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	if err := SendJSON(w, status, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusFor maps an error from the engine or the store onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadMove),
		errors.Is(err, ErrBadCommand),
		errors.Is(err, ErrBadQuery),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, mines.ErrInvalidSize),
		errors.Is(err, mines.ErrInvalidMineCount),
		errors.Is(err, mines.ErrInvalidFlags),
		errors.Is(err, mines.ErrGameOver),
		errors.Is(err, mines.ErrAlreadyRevealed),
		errors.Is(err, mines.ErrNoFlagsLeft),
		errors.Is(err, mines.ErrAlreadyArmed),
		errors.Is(err, mines.ErrNotArmed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendError answers with the status matching err. Unexpected errors are
// logged and their text is not leaked to the client.
func sendError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		sendJSONOrLog(w, log, status, wrapError(errors.New("internal error")))
		return
	}
	sendJSONOrLog(w, log, status, wrapError(err))
}
