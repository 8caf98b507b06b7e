// internal/app/features/events/handler.go

// Package events serves the event calendar: NGO owners create and manage
// events, volunteers browse and join them up to each event's capacity.
package events

import (
	"context"
	"net/http"
	"time"

	eventstore "github.com/sevahub/sevahub/internal/app/store/events"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events *eventstore.Store
	NGOs   *ngostore.Store
	Users  *userstore.Store
	Log    *zap.Logger
}

func NewHandler(events *eventstore.Store, ngos *ngostore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, NGOs: ngos, Users: users, Log: logger}
}

// ngoSummary is the owning-NGO slice attached to catalog responses.
type ngoSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// eventView is an event with its NGO reference resolved and, where the
// caller may see them, the roster members' public profiles.
type eventView struct {
	models.Event

	NGO        *ngoSummary            `json:"ngo,omitempty"`
	Volunteers []models.PublicProfile `json:"volunteerDetails,omitempty"`
}

// withNGOs resolves the owning NGO for each event in one query.
func (h *Handler) withNGOs(ctx context.Context, events []models.Event) ([]eventView, error) {
	ids := make([]primitive.ObjectID, 0, len(events))
	seen := make(map[primitive.ObjectID]bool, len(events))
	for i := range events {
		if !seen[events[i].NGOID] {
			seen[events[i].NGOID] = true
			ids = append(ids, events[i].NGOID)
		}
	}

	ngos, err := h.NGOs.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]eventView, 0, len(events))
	for i := range events {
		v := eventView{Event: events[i]}
		if ngo, ok := ngos[events[i].NGOID]; ok {
			v.NGO = &ngoSummary{ID: ngo.ID, Name: ngo.Name, Email: ngo.Email}
		}
		views = append(views, v)
	}
	return views, nil
}

// rosterProfiles loads public profiles for a roster's member ids.
func (h *Handler) rosterProfiles(ctx context.Context, ids []primitive.ObjectID) ([]models.PublicProfile, error) {
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.PublicProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			profiles = append(profiles, u.Public())
		}
	}
	return profiles, nil
}

type createRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	MaxVolunteers int       `json:"maxVolunteers"`
}

// HandleCreate creates an event under the caller's NGO. The caller must have
// registered an NGO; which NGO owns the event is derived from the account,
// never from the request body.
//
// POST /api/event
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Title = htmlsanitize.StripTags(normalize.Name(req.Title))
	req.Description = htmlsanitize.Sanitize(req.Description)
	if err := inputval.EventTitle(req.Title); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.EventDescription(req.Description); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Date.IsZero() {
		httpjson.Error(w, h.Log, apperr.Validation("Date is required"))
		return
	}
	if req.Date.Before(time.Now()) {
		httpjson.Error(w, h.Log, apperr.Validation("Event date must be in the future"))
		return
	}
	// Zero means unset; the store applies the default capacity.
	if req.MaxVolunteers != 0 && req.MaxVolunteers < 1 {
		httpjson.Error(w, h.Log, apperr.Validation("maxVolunteers must be at least 1"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ngo, err := h.NGOs.GetByUserID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	ev, err := h.Events.Create(ctx, models.Event{
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Location:      htmlsanitize.StripTags(req.Location),
		NGOID:         ngo.ID,
		MaxVolunteers: req.MaxVolunteers,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("ngo_id", ngo.ID.Hex()))

	httpjson.Created(w, "Event created successfully", ev)
}

// ServeList returns all events, soonest first, with NGO references resolved.
//
// GET /api/event
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	views, err := h.withNGOs(ctx, events)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKList(w, len(views), views)
}

// ServeByNGO returns one NGO's events.
//
// GET /api/event/ngo/{ngoId}
func (h *Handler) ServeByNGO(w http.ResponseWriter, r *http.Request) {
	ngoID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "ngoId"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListByNGO(ctx, ngoID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKList(w, len(events), events)
}

// ServeMine returns "my events" for the caller. NGO accounts get the events
// they host, with the roster members' profiles resolved; everyone else gets
// the events they have joined.
//
// GET /api/event/my
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if role != "ngo" {
		events, err := h.Events.ListByVolunteer(ctx, userID)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Internal(err))
			return
		}
		httpjson.OKList(w, len(events), events)
		return
	}

	ngo, err := h.NGOs.GetByUserID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	events, err := h.Events.ListByNGO(ctx, ngo.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	views := make([]eventView, 0, len(events))
	for i := range events {
		profiles, err := h.rosterProfiles(ctx, events[i].VolunteerIDs)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Internal(err))
			return
		}
		views = append(views, eventView{Event: events[i], Volunteers: profiles})
	}
	httpjson.OKList(w, len(views), views)
}

// ServeDetail returns a single event with its NGO and roster resolved.
//
// GET /api/event/{id}
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("Event not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	view := eventView{Event: ev}
	if ngo, err := h.NGOs.GetByID(ctx, ev.NGOID); err == nil {
		view.NGO = &ngoSummary{ID: ngo.ID, Name: ngo.Name, Email: ngo.Email}
	}
	profiles, err := h.rosterProfiles(ctx, ev.VolunteerIDs)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	view.Volunteers = profiles

	httpjson.OK(w, view)
}

type updateRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Date          *time.Time `json:"date"`
	Location      *string    `json:"location"`
	MaxVolunteers *int       `json:"maxVolunteers"`
}

// HandleUpdate edits an event. Only the owning NGO's user may edit.
//
// PUT /api/event/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.MaxVolunteers != nil && *req.MaxVolunteers < 1 {
		httpjson.Error(w, h.Log, apperr.Validation("maxVolunteers must be at least 1"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.ownedEvent(ctx, r, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := eventstore.EventUpdate{
		Date:          req.Date,
		MaxVolunteers: req.MaxVolunteers,
	}
	if req.Title != nil {
		title := htmlsanitize.StripTags(normalize.Name(*req.Title))
		if err := inputval.EventTitle(title); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		upd.Title = &title
	}
	if req.Description != nil {
		desc := htmlsanitize.Sanitize(*req.Description)
		if err := inputval.EventDescription(desc); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		upd.Description = &desc
	}
	if req.Location != nil {
		loc := htmlsanitize.StripTags(*req.Location)
		upd.Location = &loc
	}

	updated, err := h.Events.Update(ctx, id, upd)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKMessage(w, "Event updated successfully", updated)
}

// HandleDelete removes an event. Owning NGO's user or admin only.
//
// DELETE /api/event/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !authz.IsAdmin(r) {
		if _, err := h.ownedEvent(ctx, r, id); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	deleted, err := h.Events.Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apperr.NotFound("Event not found"))
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	httpjson.OKMessage(w, "Event deleted successfully", nil)
}

// HandleRegister puts the signed-in volunteer on the roster.
//
// POST /api/event/{id}/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.join(w, r, "Successfully registered for event")
}

// HandleJoin is the compatibility alias for roster joins.
//
// PUT /api/event/join/{id}
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	h.join(w, r, "Joined successfully")
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request, message string) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.Join(ctx, id, userID)
	if err != nil {
		switch err {
		case mongo.ErrNoDocuments:
			httpjson.Error(w, h.Log, apperr.NotFound("Event not found"))
		case eventstore.ErrEventFull:
			httpjson.Error(w, h.Log, apperr.Conflict("Event is full"))
		case eventstore.ErrAlreadyJoined:
			httpjson.Error(w, h.Log, apperr.Conflict("User already registered for this event"))
		default:
			httpjson.Error(w, h.Log, apperr.Internal(err))
		}
		return
	}

	h.Log.Info("volunteer joined event",
		zap.String("event_id", id.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Int("roster_size", ev.VolunteerCount()))

	httpjson.OKMessage(w, message, ev)
}

// HandleLeave takes the signed-in volunteer off the roster.
//
// DELETE /api/event/{id}/register
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	removed, err := h.Events.Leave(ctx, id, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("Event not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	// Leaving an event the volunteer never joined is a no-op, not an error.
	if removed {
		h.Log.Info("volunteer left event",
			zap.String("event_id", id.Hex()),
			zap.String("user_id", userID.Hex()))
	}
	httpjson.OKMessage(w, "Left event successfully", nil)
}

// ownedEvent loads the event and verifies the signed-in user owns the NGO
// that created it.
func (h *Handler) ownedEvent(ctx context.Context, r *http.Request, id primitive.ObjectID) (models.Event, error) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		return models.Event{}, apperr.Auth("Authentication required")
	}

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, apperr.NotFound("Event not found")
		}
		return models.Event{}, apperr.Internal(err)
	}

	ngo, err := h.NGOs.GetByID(ctx, ev.NGOID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, apperr.Forbidden("Access denied")
		}
		return models.Event{}, apperr.Internal(err)
	}
	if ngo.UserID != userID {
		return models.Event{}, apperr.Forbidden("Access denied")
	}
	return ev, nil
}
