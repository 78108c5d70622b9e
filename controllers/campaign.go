package controllers

import (
	"errors"
	"net/http"
	"time"

	"boostbot-backend/models"
	"boostbot-backend/repository"
	"boostbot-backend/utils"

	"github.com/gin-gonic/gin"
)

// campaignCodeAttempts bounds the unique 4-letter code retry loop.
const campaignCodeAttempts = 5

type CampaignController struct {
	campaigns *repository.CampaignRepository
	referrals *repository.ReferralRepository
}

func NewCampaignController(campaigns *repository.CampaignRepository, referrals *repository.ReferralRepository) *CampaignController {
	return &CampaignController{campaigns: campaigns, referrals: referrals}
}

type CreateCampaignInput struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Prizes      []string  `json:"prizes"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	IsActive    *bool     `json:"isActive"`
}

type UpdateCampaignInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Prizes      []string   `json:"prizes"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    *bool      `json:"isActive"`
}

func (cc *CampaignController) CreateCampaign(c *gin.Context) {
	var input CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	createdBy := "representative"
	if userID, exists := c.Get("userId"); exists {
		if id, ok := userID.(string); ok {
			createdBy = id
		}
	}

	code, err := cc.uniqueCampaignCode()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to allocate campaign code")
		return
	}

	campaign := models.Campaign{
		Code:        code,
		Name:        input.Name,
		Description: input.Description,
		Prizes:      models.StringList(input.Prizes),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	if input.IsActive != nil {
		campaign.IsActive = *input.IsActive
	}

	if err := cc.campaigns.Create(&campaign); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func (cc *CampaignController) uniqueCampaignCode() (string, error) {
	for attempt := 0; attempt < campaignCodeAttempts; attempt++ {
		code := utils.GenerateCampaignCode()
		_, err := cc.campaigns.GetByCode(code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("campaign code generation exhausted retries")
}

func (cc *CampaignController) GetCampaigns(c *gin.Context) {
	campaigns, err := cc.campaigns.List()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve campaigns")
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (cc *CampaignController) GetActiveCampaigns(c *gin.Context) {
	campaigns, err := cc.campaigns.Active()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve campaigns")
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (cc *CampaignController) GetCampaign(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidCampaignCode(code) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign code format")
		return
	}

	campaign, err := cc.campaigns.GetByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (cc *CampaignController) UpdateCampaign(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidCampaignCode(code) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign code format")
		return
	}

	var input UpdateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Prizes != nil {
		updates["prizes"] = models.StringList(input.Prizes)
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	if err := cc.campaigns.Update(code, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update campaign")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign updated successfully"})
}

func (cc *CampaignController) DeleteCampaign(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidCampaignCode(code) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign code format")
		return
	}

	if err := cc.campaigns.Delete(code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete campaign")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

// GetLeaderboard returns the referrer ranking for one campaign.
func (cc *CampaignController) GetLeaderboard(c *gin.Context) {
	code := c.Param("code")
	if !utils.ValidCampaignCode(code) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign code format")
		return
	}

	entries, err := cc.referrals.Leaderboard(code, 50)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}
	c.JSON(http.StatusOK, entries)
}
