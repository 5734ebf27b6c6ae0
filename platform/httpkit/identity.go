// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated company's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access tenant information without depending on Gin.
type Identity interface {
	// CompanyID returns the authenticated company's ID.
	CompanyID() uuid.UUID
	// CompanyName returns the company name claim, if present.
	CompanyName() string
	// IsAuthenticated returns true if the request carries a valid identity.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	companyID     uuid.UUID
	companyName   string
	authenticated bool
}

func (i *identity) CompanyID() uuid.UUID {
	return i.companyID
}

func (i *identity) CompanyName() string {
	return i.companyName
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if company info is not present.
func GetIdentity(c *gin.Context) Identity {
	companyID, ok := c.Get(ContextCompanyIDKey)
	if !ok {
		return &identity{authenticated: false}
	}

	cid, ok := companyID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	name, _ := c.Get(ContextCompanyNameKey)
	companyName, _ := name.(string)

	return &identity{
		companyID:     cid,
		companyName:   companyName,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the request is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
