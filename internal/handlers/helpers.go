package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// medicineParam lit l'identifiant de médicament dans le chemin.
func medicineParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("medicineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID médicament invalide"})
		return 0, false
	}
	return id, true
}
