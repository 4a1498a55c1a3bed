package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ozanyurtsever/quickshow/api"
	"github.com/ozanyurtsever/quickshow/internal/domain"
)

func (app *Application) GetOccupiedSeatsHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := strconv.Atoi(chi.URLParam(r, "showId"))
	if err != nil || showID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("show ID must be a positive integer"))
		return
	}

	show, err := app.showRepo.GetById(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.OccupiedSeatsResponse{
		ShowId:        show.ID,
		OccupiedSeats: show.OccupiedSeats.Labels(),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
