package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/server/http/dto"
)

// maxInflatedBody caps a decompressed request body.
const maxInflatedBody = 4 << 20

// DecompressRequest inflates gzip request bodies up to maxInflatedBody.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(strings.ToLower(c.GetHeader("Content-Encoding")), "gzip") {
			c.Next()
			return
		}

		compressed := c.Request.Body
		defer compressed.Close()

		reader, err := gzip.NewReader(compressed)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed gzip body"})
			return
		}
		defer reader.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, io.NopCloser(reader), maxInflatedBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}

// CompressResponse gzips responses except on paths that stream files.
func CompressResponse(excludedPaths ...string) gin.HandlerFunc {
	return ginGzip.Gzip(ginGzip.DefaultCompression, ginGzip.WithExcludedPaths(excludedPaths))
}
