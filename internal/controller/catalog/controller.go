// Package catalog provides the public read endpoints for domains, companies
// and their job listings.
package catalog

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/model"
	"github.com/shadowkingaftab/connect-hire/internal/utilities"
)

// CatalogController serves the unauthenticated browse surface
type CatalogController struct {
	DB  *database.DBinstanceStruct
	Log *logrus.Logger
}

// NewCatalogController creates a new instance of CatalogController.
func NewCatalogController(db *database.DBinstanceStruct, log *logrus.Logger) *CatalogController {
	return &CatalogController{DB: db, Log: log}
}

// GetDomains lists every registered business domain. A read failure degrades
// to an empty list with a warning field rather than an error status so the
// browse page still renders.
// @Summary List business domains
// @Tags Catalog
// @Produce json
// @Success 200 {array} model.Domain "All domains"
// @Router /domains [get]
func (cc *CatalogController) GetDomains(c *gin.Context) {
	domains := []model.Domain{}
	if err := cc.DB.Find(&domains).Error; err != nil {
		cc.Log.WithError(err).Warn("domain listing failed")
		c.JSON(http.StatusOK, gin.H{
			"domains": []model.Domain{},
			"warning": "Domain listing temporarily unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": domains})
}

// GetCompaniesByDomain lists the companies registered under one domain.
// @Summary List companies in a domain
// @Tags Catalog
// @Produce json
// @Param id path int true "Domain id"
// @Success 200 {array} model.Company "Companies in the domain"
// @Failure 404 {object} utilities.ErrorResponse "Domain not found"
// @Router /domains/{id}/companies [get]
func (cc *CatalogController) GetCompaniesByDomain(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid domain id"})
		return
	}

	var domain model.Domain
	if err := cc.DB.Preload("Companies").First(&domain, id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: fmt.Sprintf("Domain with id %d not found", id),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": domain.Companies})
}

// GetCompanyByID returns one company profile.
// @Summary Get a company by id
// @Tags Catalog
// @Produce json
// @Param id path string true "Company id (employer user uuid)"
// @Success 200 {object} model.Company "The company"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id} [get]
func (cc *CatalogController) GetCompanyByID(c *gin.Context) {
	id := c.Param("id")

	var company model.Company
	if err := cc.DB.Preload("Domain").First(&company, "user_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: fmt.Sprintf("Company with id %s not found", id),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// GetCompanyJobs lists the active jobs of one company. Inactive listings are
// never visible here, including to the owner; the authenticated job surface
// covers that case.
// @Summary List the active jobs of a company
// @Tags Catalog
// @Produce json
// @Param id path string true "Company id (employer user uuid)"
// @Success 200 {array} model.Job "Active jobs"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id}/jobs [get]
func (cc *CatalogController) GetCompanyJobs(c *gin.Context) {
	id := c.Param("id")

	var company model.Company
	if err := cc.DB.First(&company, "user_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: fmt.Sprintf("Company with id %s not found", id),
		})
		return
	}

	jobs := []model.Job{}
	if err := cc.DB.Where("employer_id = ? AND active = true", company.UserID).Find(&jobs).Error; err != nil {
		cc.Log.WithError(err).Warn("company job listing failed")
		c.JSON(http.StatusOK, gin.H{
			"jobs":    []model.Job{},
			"warning": "Job listing temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
