package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/oliveiraenergia/oilsample/internal/domain"
	"github.com/oliveiraenergia/oilsample/internal/report"
	"github.com/oliveiraenergia/oilsample/internal/samples"
	"github.com/oliveiraenergia/oilsample/internal/shared/middleware"
	"github.com/oliveiraenergia/oilsample/internal/web/templates"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	panel, status := s.lookupPanel(r, r.URL.Query().Get(domain.FieldSampleNumber))
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := templates.FormPage(templates.Page{Title: s.title, Panel: panel}).Render(ctx, w); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get(domain.FieldSampleNumber)
	if !middleware.IsHTMX(r) {
		http.Redirect(w, r, "/?"+url.Values{domain.FieldSampleNumber: {number}}.Encode(), http.StatusSeeOther)
		return
	}

	panel, status := s.lookupPanel(r, number)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := templates.FormPanel(panel).Render(r.Context(), w); err != nil {
		s.logger.Error("render panel", zap.Error(err))
	}
}

// lookupPanel prefills the form for number. A failed lookup keeps a blank
// form carrying the typed number and an error line.
func (s *Server) lookupPanel(r *http.Request, number string) (templates.Panel, int) {
	res, err := s.service.Lookup(r.Context(), number)
	if err != nil {
		form := s.service.NewForm()
		form.Set(domain.FieldSampleNumber, number)
		panel := templates.NewPanel(form)
		code, msg := s.describeError(r, err)
		panel.Status = &templates.Status{Level: templates.LevelError, Message: msg}
		return panel, code
	}

	panel := templates.NewPanel(res.Form)
	switch {
	case res.SampleNumber == "":
	case res.Found && len(res.DuplicateRows) > 0:
		panel.Status = &templates.Status{
			Level: templates.LevelWarning,
			Message: fmt.Sprintf("Amostra carregada da linha %d. O mesmo número aparece também nas linhas %s.",
				res.Row, templates.JoinRows(res.DuplicateRows)),
		}
	case res.Found:
		panel.Status = &templates.Status{
			Level:   templates.LevelInfo,
			Message: fmt.Sprintf("Amostra carregada da linha %d.", res.Row),
		}
	default:
		panel.Status = &templates.Status{
			Level:   templates.LevelInfo,
			Message: "Nova amostra: nenhum registro com este número.",
		}
	}
	return panel, http.StatusOK
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	form := formFromRequest(r)

	res, err := s.service.Submit(ctx, form)
	if err != nil && res == nil {
		code, msg := s.describeError(r, err)
		s.renderError(w, r, code, msg)
		return
	}

	result := templates.Result{
		SampleNumber:    res.SampleNumber,
		Row:             res.Row,
		Created:         res.Created,
		DuplicateRows:   res.DuplicateRows,
		FileName:        res.FileName,
		ArchiveLocation: res.ArchiveLocation,
	}
	if res.Created {
		result.Status = templates.Status{Level: templates.LevelSuccess, Message: fmt.Sprintf("Dados gravados na linha %d (A..%s).", res.Row, domain.LastColumn())}
	} else {
		result.Status = templates.Status{Level: templates.LevelSuccess, Message: fmt.Sprintf("Registro atualizado na linha %d (A..%s).", res.Row, domain.LastColumn())}
	}

	code := http.StatusOK
	if err != nil {
		// Saved, but the PDF could not be produced.
		s.logger.Error("report generation failed", zap.String("sample_number", res.SampleNumber), zap.Error(err))
		result.Status.Message += " Não foi possível gerar o PDF."
		result.Status.Level = templates.LevelWarning
		code = http.StatusInternalServerError
	} else {
		result.DownloadURL = templates.ReportURL(res.SampleNumber)
	}

	if middleware.IsHTMX(r) {
		w.WriteHeader(code)
		if err := templates.SubmitResult(result).Render(ctx, w); err != nil {
			s.logger.Error("render result", zap.Error(err))
		}
		return
	}

	panel := templates.NewPanel(form)
	panel.Result = &result
	w.WriteHeader(code)
	if err := templates.FormPage(templates.Page{Title: s.title, Panel: panel}).Render(ctx, w); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	pdf, err := s.service.Report(r.Context(), number)
	if err != nil {
		code, msg := s.describeError(r, err)
		http.Error(w, msg, code)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(number)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	w.WriteHeader(code)
	status := templates.Status{Level: templates.LevelError, Message: msg}
	if err := templates.StatusLine(status).Render(r.Context(), w); err != nil {
		s.logger.Error("render error", zap.Error(err))
	}
}

// describeError maps a service error to a status code and a message for the user.
func (s *Server) describeError(r *http.Request, err error) (int, string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, domain.ErrSampleNumberRequired):
		return http.StatusBadRequest, "Preencha o campo n.º da Amostra (obrigatório)."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Amostra não encontrada."
	case errors.Is(err, domain.ErrUnavailable):
		s.logger.Warn("spreadsheet unavailable", zap.String("request_id", reqID), zap.Error(err))
		return http.StatusBadGateway, "Planilha indisponível no momento. Tente novamente."
	case errors.Is(err, domain.ErrCredentials):
		s.logger.Error("spreadsheet credentials rejected", zap.String("request_id", reqID), zap.Error(err))
		return http.StatusInternalServerError, "Credenciais da planilha ausentes ou inválidas."
	default:
		s.logger.Error("request failed", zap.String("request_id", reqID), zap.Error(err))
		return http.StatusInternalServerError, "Erro ao processar a amostra: " + err.Error()
	}
}

// formFromRequest reads every form field. Unchecked yes/no boxes are absent
// from the request and read as Não.
func formFromRequest(r *http.Request) domain.Form {
	form := make(domain.Form)
	for _, f := range domain.Fields() {
		form.Set(f.Key, r.PostForm.Get(f.Key))
	}
	return form
}

var _ SampleService = (*samples.Service)(nil)
