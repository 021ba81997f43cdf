package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/core/services"
	"github.com/vuthy55/roomledger/internal/dto"
	"github.com/vuthy55/roomledger/internal/middleware"
)

// roomHandler handles HTTP requests for room lifecycle and presence.
type roomHandler struct {
	roomService     portssvc.RoomSvcFacade
	presenceService portssvc.PresenceSvcFacade
	reconciler      portssvc.ReconciliationSvcFacade
}

func newRoomHandler(rs portssvc.RoomSvcFacade, ps portssvc.PresenceSvcFacade, rec portssvc.ReconciliationSvcFacade) *roomHandler {
	return &roomHandler{
		roomService:     rs,
		presenceService: ps,
		reconciler:      rec,
	}
}

// createRoom godoc
// @Summary Create a room
// @Description Schedules (or immediately starts) a room and debits the prepaid hold from the caller's account.
// @Tags rooms
// @Accept json
// @Produce json
// @Param room body dto.CreateRoomRequest true "Room details"
// @Success 201 {object} dto.RoomResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse "Insufficient token balance for the hold"
// @Security BearerAuth
// @Router /rooms [post]
func (h *roomHandler) createRoom(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

// getRoom godoc
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 200 {object} dto.RoomResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /rooms/{roomID} [get]
func (h *roomHandler) getRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Request.Context(), c.Param("roomID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

// updateRoom godoc
// @Summary Revise a scheduled room
// @Description Edits a scheduled room; a cost-changing revision swaps the prepaid hold in the same transaction.
// @Tags rooms
// @Accept json
// @Produce json
// @Param roomID path string true "Room ID"
// @Param room body dto.UpdateRoomRequest true "Fields to change"
// @Success 200 {object} dto.RoomResponse
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the room creator"
// @Failure 409 {object} ErrorResponse "Room is no longer scheduled"
// @Security BearerAuth
// @Router /rooms/{roomID} [put]
func (h *roomHandler) updateRoom(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	room, err := h.roomService.ReviseSchedule(c.Request.Context(), c.Param("roomID"), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

// closeRoom godoc
// @Summary Close and reconcile a room
// @Description Settles the room's metered cost against its prepaid hold and closes it. Idempotent.
// @Tags rooms
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 200 {object} dto.RoomResponse
// @Failure 403 {object} ErrorResponse "Not the room creator"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /rooms/{roomID} [delete]
func (h *roomHandler) closeRoom(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	if room.CreatorID != userID {
		respondError(c, fmt.Errorf("%w: user %s", services.ErrNotRoomCreator, userID))
		return
	}

	if err := h.reconciler.CloseAndReconcile(c.Request.Context(), roomID); err != nil {
		respondError(c, err)
		return
	}

	closed, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRoomResponse(closed))
}

// markActivity godoc
// @Summary Record first activity
// @Description Flips a scheduled room to active on its first message or event. Idempotent.
// @Tags rooms
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Room already closed"
// @Security BearerAuth
// @Router /rooms/{roomID}/activity [post]
func (h *roomHandler) markActivity(c *gin.Context) {
	if err := h.roomService.MarkFirstActivity(c.Request.Context(), c.Param("roomID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// joinRoom godoc
// @Summary Join a room
// @Tags rooms
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 200 {object} dto.JoinResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Room already closed"
// @Security BearerAuth
// @Router /rooms/{roomID}/join [post]
func (h *roomHandler) joinRoom(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	participant, err := h.presenceService.Join(c.Request.Context(), c.Param("roomID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JoinResponse{
		RoomID:   participant.RoomID,
		UserID:   participant.UserID,
		JoinedAt: participant.JoinedAt,
	})
}

// leaveRoom godoc
// @Summary Leave a room
// @Description Removes the caller from the room. When the last participant leaves, the room is reconciled and closed as a follow-up step.
// @Tags rooms
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 200 {object} dto.LeaveResult
// @Security BearerAuth
// @Router /rooms/{roomID}/leave [post]
func (h *roomHandler) leaveRoom(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")

	result, err := h.presenceService.Leave(c.Request.Context(), roomID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Phase two of the leave protocol: the departure is committed, so the
	// close runs on a fresh read. A settlement failure here leaves the room
	// open for a later retry but never undoes the leave.
	if result.ReconciliationRequired {
		if err := h.reconciler.CloseAndReconcile(c.Request.Context(), roomID); err != nil {
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Post-leave reconciliation failed; room left open for retry",
				slog.String("room_id", roomID), slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, result)
}
