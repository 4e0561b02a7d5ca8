package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	// Type
	ListTypes(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	// Balance
	MyBalances(w http.ResponseWriter, r *http.Request)
	// Request
	Submit(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// ListTypes implements LeaveHandler. Inactive types are listed for admins only.
func (h *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	includeInactive := false
	if b := queryBool(r, "include_inactive"); b != nil && p.IsAdmin() {
		includeInactive = *b
	}

	result, err := h.leaveService.ListLeaveTypes(r.Context(), includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetType implements LeaveHandler.
func (h *leaveHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.GetLeaveType(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateType implements LeaveHandler.
func (h *leaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleDecodeError(w, err)
		return
	}

	result, err := h.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", result)
}

// UpdateType implements LeaveHandler.
func (h *leaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.UpdateLeaveTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleDecodeError(w, err)
		return
	}
	req.ID = id

	result, err := h.leaveService.UpdateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyBalances implements LeaveHandler.
func (h *leaveHandlerImpl) MyBalances(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.ListMyBalances(r.Context(), p.EmployeeID, queryInt(r, "year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Submit implements LeaveHandler.
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.SubmitLeaveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleDecodeError(w, err)
		return
	}
	req.EmployeeID = p.EmployeeID

	result, err := h.leaveService.SubmitRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// MyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := leave.MyLeaveRequestFilter{
		Status: queryString(r, "status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if year := queryInt(r, "year"); year != 0 {
		filter.Year = &year
	}

	result, err := h.leaveService.ListMyRequests(r.Context(), p.EmployeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Cancel implements LeaveHandler.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.CancelRequest(r.Context(), p.EmployeeID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveRequestFilter{
		EmployeeID:  queryString(r, "employee_id"),
		LeaveTypeID: queryString(r, "leave_type_id"),
		Status:      queryString(r, "status"),
		StartDate:   queryString(r, "start_date"),
		EndDate:     queryString(r, "end_date"),
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
	}

	result, err := h.leaveService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements LeaveHandler.
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.GetRequest(r.Context(), p, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) readDecision(r *http.Request) (leave.DecideLeaveRequest, error) {
	var req leave.DecideLeaveRequest

	p, err := principal(r)
	if err != nil {
		return req, err
	}
	id, err := pathID(r)
	if err != nil {
		return req, err
	}
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}

	req.RequestID = id
	req.DecidedBy = p.UserID
	return req, nil
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req, err := h.readDecision(r)
	if err != nil {
		handleDecodeError(w, err)
		return
	}

	result, err := h.leaveService.ApproveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements LeaveHandler.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req, err := h.readDecision(r)
	if err != nil {
		handleDecodeError(w, err)
		return
	}

	result, err := h.leaveService.RejectRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}
