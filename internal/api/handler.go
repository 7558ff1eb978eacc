package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/hrroster/internal/command"
)

const maxBodyBytes = 1 << 20

// Handler exposes the command executor over HTTP/JSON.
type Handler struct {
	exec     *command.Executor
	validate *validator.Validate
	mux      *http.ServeMux
}

// NewHandler registers every route on a fresh mux.
func NewHandler(exec *command.Executor) *Handler {
	h := &Handler{
		exec:     exec,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.health)

	h.mux.HandleFunc("POST /organizations", h.createOrganization)
	h.mux.HandleFunc("GET /organization", h.getOrganization)
	h.mux.HandleFunc("PATCH /organization", h.renameOrganization)
	h.mux.HandleFunc("DELETE /organization", h.removeOrganization)

	h.mux.HandleFunc("POST /department", h.createDepartment)
	h.mux.HandleFunc("GET /department", h.getDepartment)
	h.mux.HandleFunc("DELETE /department", h.removeDepartment)
	h.mux.HandleFunc("PATCH /department/head", h.setDepartmentHead)
	h.mux.HandleFunc("GET /department/stats/{kind}", h.departmentStats)

	h.mux.HandleFunc("GET /employee", h.getEmployee)
	h.mux.HandleFunc("PATCH /employee", h.updateEmployee)
	h.mux.HandleFunc("POST /department/employee", h.addEmployee)
	h.mux.HandleFunc("DELETE /department/employee", h.removeEmployee)

	h.mux.HandleFunc("POST /shift", h.addShift)
	h.mux.HandleFunc("GET /shift", h.getShift)
	h.mux.HandleFunc("DELETE /shift", h.removeShift)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.exec.Execute(r.Context(), command.InsertOrganization{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id, ok := res.Fields["id"].(int64); ok {
		res.Fields["clientId"] = EncodeClientID(id)
	}

	writeResult(w, r, res, http.StatusCreated)
}

func (h *Handler) getOrganization(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		return command.GetOrganization{OrgID: q.orgID}, nil
	})
}

func (h *Handler) renameOrganization(w http.ResponseWriter, r *http.Request) {
	var req RenameOrganizationRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		return command.RenameOrganization{OrgID: q.orgID, Name: strings.TrimSpace(req.Name)}, nil
	})
}

func (h *Handler) removeOrganization(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		return command.RemoveOrganization{OrgID: q.orgID}, nil
	})
}

func (h *Handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req CreateDepartmentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	h.run(w, r, http.StatusCreated, func(q query) (command.Command, error) {
		return command.InsertDepartment{OrgID: q.orgID, Name: strings.TrimSpace(req.Name), Budget: req.Budget}, nil
	})
}

func (h *Handler) getDepartment(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		deptID, err := q.requiredID("departmentId")
		if err != nil {
			return nil, err
		}
		return command.GetDepartment{OrgID: q.orgID, DepartmentID: deptID}, nil
	})
}

func (h *Handler) removeDepartment(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		deptID, err := q.requiredID("departmentId")
		if err != nil {
			return nil, err
		}
		return command.RemoveDepartment{OrgID: q.orgID, DepartmentID: deptID}, nil
	})
}

func (h *Handler) setDepartmentHead(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		deptID, err := q.requiredID("departmentId")
		if err != nil {
			return nil, err
		}
		empID, err := q.requiredID("employeeId")
		if err != nil {
			return nil, err
		}
		return command.SetDepartmentHead{OrgID: q.orgID, DepartmentID: deptID, EmployeeID: empID}, nil
	})
}

func (h *Handler) departmentStats(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		deptID, err := q.requiredID("departmentId")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "budget":
			return command.DepartmentBudgetStats{OrgID: q.orgID, DepartmentID: deptID}, nil
		case "performance":
			return command.DepartmentPerformanceStats{OrgID: q.orgID, DepartmentID: deptID}, nil
		case "positions":
			return command.DepartmentPositionStats{OrgID: q.orgID, DepartmentID: deptID}, nil
		default:
			return nil, badRequest("unknown statistic %q", kind)
		}
	})
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		empID, err := q.requiredID("employeeId")
		if err != nil {
			return nil, err
		}
		return command.GetEmployee{OrgID: q.orgID, EmployeeID: empID}, nil
	})
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		empID, err := q.requiredID("employeeId")
		if err != nil {
			return nil, err
		}
		return command.UpdateEmployee{
			OrgID:       q.orgID,
			EmployeeID:  empID,
			Position:    req.Position,
			Salary:      req.Salary,
			Performance: req.Performance,
		}, nil
	})
}

func (h *Handler) addEmployee(w http.ResponseWriter, r *http.Request) {
	var req AddEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	h.run(w, r, http.StatusCreated, func(q query) (command.Command, error) {
		deptID, err := q.requiredID("departmentId")
		if err != nil {
			return nil, err
		}
		return command.AddEmployeeToDepartment{OrgID: q.orgID, DepartmentID: deptID, Employee: req.Employee()}, nil
	})
}

func (h *Handler) removeEmployee(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		deptID, err := q.requiredID("departmentId")
		if err != nil {
			return nil, err
		}
		empID, err := q.requiredID("employeeId")
		if err != nil {
			return nil, err
		}
		return command.RemoveEmployeeFromDepartment{OrgID: q.orgID, DepartmentID: deptID, EmployeeID: empID}, nil
	})
}

func (h *Handler) addShift(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusCreated, func(q query) (command.Command, error) {
		empID, day, slot, err := q.shift()
		if err != nil {
			return nil, err
		}
		return command.NewAddShift(q.orgID, empID, day, slot)
	})
}

func (h *Handler) getShift(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		var day *int
		if q.values.Has("dayOfWeek") {
			d, err := q.number("dayOfWeek")
			if err != nil {
				return nil, err
			}
			day = &d
		}

		var empID *int64
		if q.values.Has("employeeId") {
			id, err := q.requiredID("employeeId")
			if err != nil {
				return nil, err
			}
			empID = &id
		}

		return command.NewGetShift(q.orgID, day, empID)
	})
}

func (h *Handler) removeShift(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(q query) (command.Command, error) {
		empID, day, slot, err := q.shift()
		if err != nil {
			return nil, err
		}
		return command.NewRemoveShift(q.orgID, empID, day, slot)
	})
}

// run decodes the cid, builds the command and writes its outcome.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, successStatus int, build func(query) (command.Command, error)) {
	q, err := newQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cmd, err := build(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.exec.Execute(r.Context(), cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, r, res, successStatus)
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return badRequest("invalid request: %s", strings.Join(fields, ", "))
		}
		return badRequest("invalid request: %v", err)
	}

	return nil
}

type query struct {
	orgID  int64
	values url.Values
}

func newQuery(r *http.Request) (query, error) {
	values := r.URL.Query()
	orgID, err := DecodeClientID(values.Get("cid"))
	if err != nil {
		return query{}, badRequest("%v", err)
	}
	return query{orgID: orgID, values: values}, nil
}

func (q query) number(name string) (int, error) {
	raw := q.values.Get(name)
	if raw == "" {
		return 0, badRequest("missing %s", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

func (q query) requiredID(name string) (int64, error) {
	raw := q.values.Get(name)
	if raw == "" {
		return 0, badRequest("missing %s", name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

func (q query) shift() (empID int64, day, slot int, err error) {
	if empID, err = q.requiredID("employeeId"); err != nil {
		return 0, 0, 0, err
	}
	if day, err = q.number("dayOfWeek"); err != nil {
		return 0, 0, 0, err
	}
	if slot, err = q.number("timeSlot"); err != nil {
		return 0, 0, 0, err
	}
	return empID, day, slot, nil
}

type requestError struct {
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(format string, args ...any) error {
	return &requestError{message: fmt.Sprintf(format, args...)}
}

// writeResult maps a command outcome onto a status code. Successful reads carry an
// ETag of the encoded body and answer a matching If-None-Match with 304.
func writeResult(w http.ResponseWriter, r *http.Request, res *command.Result, successStatus int) {
	if !res.OK() {
		writeJSON(w, http.StatusBadRequest, res)
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, successStatus, res)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to encode result: %w", err))
		return
	}
	body = append(body, '\n')

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(successStatus)
	_, _ = w.Write(body)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.As(err, &reqErr):
		status, message = http.StatusBadRequest, reqErr.message
	case command.KindOf(err) == command.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case command.KindOf(err) == command.KindInvalidArgument:
		status, message = http.StatusBadRequest, err.Error()
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}

	writeJSON(w, status, command.Failed(message))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
