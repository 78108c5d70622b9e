package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"boostbot-backend/models"
	"boostbot-backend/repository"
	"boostbot-backend/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	customers *repository.CustomerRepository
}

func NewCustomerController(customers *repository.CustomerRepository) *CustomerController {
	return &CustomerController{customers: customers}
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Address          *string  `json:"address"`
	CompanyName      *string  `json:"companyName"`
	CustomerType     *string  `json:"customerType"`
	Socials          []string `json:"socials"`
	InterestGroups   []string `json:"interestGroups"`
	Tags             []string `json:"tags"`
	EscalationStatus *bool    `json:"escalationStatus"`
	IsActive         *bool    `json:"isActive"`
}

func (cc *CustomerController) GetCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	customers, err := cc.customers.List(limit, offset)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	total, err := cc.customers.Count()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": total})
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	phone := utils.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	customer, err := cc.customers.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	phone := utils.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CustomerType != nil &&
		*input.CustomerType != models.CustomerTypeB2B && *input.CustomerType != models.CustomerTypeD2C {
		utils.RespondWithError(c, http.StatusBadRequest, "customerType must be B2B or D2C")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.CompanyName != nil {
		updates["company_name"] = *input.CompanyName
	}
	if input.CustomerType != nil {
		updates["customer_type"] = *input.CustomerType
	}
	if input.Socials != nil {
		updates["socials"] = models.StringList(input.Socials)
	}
	if input.InterestGroups != nil {
		updates["interest_groups"] = models.StringList(input.InterestGroups)
	}
	if input.Tags != nil {
		updates["tags"] = models.StringList(input.Tags)
	}
	if input.EscalationStatus != nil {
		updates["escalation_status"] = *input.EscalationStatus
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	if _, err := cc.customers.GetByPhone(phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := cc.customers.Merge(phone, updates); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	phone := utils.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	if err := cc.customers.Delete(phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// GetTags returns all distinct customer tags.
func (cc *CustomerController) GetTags(c *gin.Context) {
	tags, err := cc.customers.UniqueTags()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
