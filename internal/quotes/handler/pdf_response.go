package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const contentTypePDF = "application/pdf"

func servePDFBytes(c *gin.Context, fileName string, pdfBytes []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentTypePDF, pdfBytes)
}
