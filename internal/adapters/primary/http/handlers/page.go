package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"wine-tier-service/internal/adapters/primary/http/dto"
	"wine-tier-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTitle   = "Wine Price Tier Predictor (Systembolaget)"
	pageCaption = "Enter bottle-label style info and predict the price tier (Q1-Q4) within the filtered mainstream range."
)

// Templates parses the HTML templates served by the form pages.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type pageField struct {
	Name    string
	Label   string
	Kind    string
	Options []string
	Value   string
	Checked bool
	Min     string
	Max     string
	Step    string
}

type pageData struct {
	Title   string
	Caption string
	Fields  []pageField
	Success string
	Info    string
	Error   string
}

func (h *Handler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.newPage(nil))
}

func (h *Handler) SubmitForm(c *gin.Context) {
	input, err := parseFormInput(c)
	if err != nil {
		page := h.newPage(c)
		page.Error = err.Error()
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	page := h.newPage(c)
	result, err := h.predictionSvc.Predict(requestContext(c), input)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).Error("form prediction failed")
			page.Error = "Prediction failed, please try again."
		} else {
			page.Error = err.Error()
		}
		c.HTML(status, "index.html", page)
		return
	}

	page.Success = dto.SuccessMessage(result)
	page.Info = dto.RangeMessage(result, h.currency)
	c.HTML(http.StatusOK, "index.html", page)
}

// newPage lays out the form. Submitted values are echoed back when c is set.
func (h *Handler) newPage(c *gin.Context) pageData {
	schema := h.formSvc.Schema()
	page := pageData{Title: pageTitle, Caption: pageCaption}

	for _, f := range schema.Fields {
		pf := pageField{
			Name:    f.Name,
			Label:   f.Label,
			Kind:    string(f.Kind),
			Options: f.Options,
			Min:     formatBound(f.Min),
			Max:     formatBound(f.Max),
			Step:    formatBound(f.Step),
		}

		switch v := f.Default.(type) {
		case bool:
			pf.Checked = v
		case float64:
			pf.Value = dto.FormatAlcohol(v)
		default:
			pf.Value = fmt.Sprint(v)
		}

		if c != nil {
			if f.Kind == domain.FieldKindCheckbox {
				pf.Checked = c.PostForm(f.Name) != ""
			} else if posted, ok := c.GetPostForm(f.Name); ok {
				pf.Value = posted
			}
		}
		page.Fields = append(page.Fields, pf)
	}
	return page
}

func parseFormInput(c *gin.Context) (domain.UserInputRow, error) {
	input := domain.UserInputRow{
		Country:        c.DefaultPostForm(domain.FieldCountry, domain.UnknownCategory),
		CategoryLevel1: c.DefaultPostForm(domain.FieldCategoryLevel1, domain.UnknownCategory),
		CategoryLevel2: c.DefaultPostForm(domain.FieldCategoryLevel2, domain.UnknownCategory),
		Vintage:        domain.ParseVintage(c.PostForm(domain.FieldVintage)),
		IsOrganic:      domain.OrganicFlag(c.PostForm(domain.FieldIsOrganic) != ""),
	}

	alcohol, err := strconv.ParseFloat(strings.TrimSpace(c.DefaultPostForm(domain.FieldAlcoholPercentage, "13.0")), 64)
	if err != nil {
		return input, errors.New("alcohol percentage must be a number")
	}
	input.AlcoholPercentage = alcohol

	volume, err := strconv.Atoi(strings.TrimSpace(c.DefaultPostForm(domain.FieldVolume, "750")))
	if err != nil {
		return input, errors.New("volume (ml) must be a whole number")
	}
	input.Volume = volume

	return input, nil
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
