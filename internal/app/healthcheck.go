package app

import (
	"net/http"
)

func (app *application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := envelope{
		"status": "success",
		"data": envelope{
			"status":      "UP",
			"version":     version,
			"environment": app.config.env,
		},
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
