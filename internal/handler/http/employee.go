package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	EnrollFace(w http.ResponseWriter, r *http.Request)
	EnrollMyFace(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleDecodeError(w, err)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created", result)
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Search:   queryString(r, "search"),
		IsActive: queryBool(r, "is_active"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Me returns the profile linked to the caller's account.
func (h *employeeHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.GetByUserID(r.Context(), caller.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements EmployeeHandler.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req employee.UpdateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleDecodeError(w, err)
		return
	}
	req.ID = id

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Deactivate implements EmployeeHandler.
func (h *employeeHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.DeactivateEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deactivated", result)
}

type enrollFaceBody struct {
	PhotoBase64 string `json:"photo_base64"`
}

// readEnrollment accepts a multipart `photo` file or a JSON photo_base64.
func readEnrollment(r *http.Request, employeeID string) (employee.EnrollFaceRequest, error) {
	var body enrollFaceBody
	uploaded, err := decodeWithPhoto(r, &body)
	if err != nil {
		return employee.EnrollFaceRequest{}, err
	}

	req := employee.EnrollFaceRequest{EmployeeID: employeeID}
	switch {
	case uploaded != nil:
		req.Photo = *uploaded
	case body.PhotoBase64 != "":
		p, err := photo.FromBase64(body.PhotoBase64)
		if err != nil {
			return employee.EnrollFaceRequest{}, err
		}
		req.Photo = p
	}
	return req, nil
}

func (h *employeeHandlerImpl) enroll(w http.ResponseWriter, r *http.Request, employeeID string) {
	req, err := readEnrollment(r, employeeID)
	if err != nil {
		handleDecodeError(w, err)
		return
	}

	result, err := h.employeeService.EnrollFace(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Face enrolled", result)
}

// EnrollFace implements EmployeeHandler.
func (h *employeeHandlerImpl) EnrollFace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.enroll(w, r, id)
}

// EnrollMyFace implements EmployeeHandler.
func (h *employeeHandlerImpl) EnrollMyFace(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.enroll(w, r, p.EmployeeID)
}
