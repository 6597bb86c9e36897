package handler

import (
	"encoding/json"
	"hash/crc32"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const crcHeader = "crc32"

// checksum is the unsigned decimal IEEE CRC32 of body.
func checksum(body []byte) string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE(body)), 10)
}

// jsonWithCRC writes obj as JSON and sets the crc32 header over the exact bytes sent.
func jsonWithCRC(c *gin.Context, status int, obj any) {
	body, err := json.Marshal(obj)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode response"})
		return
	}
	c.Header(crcHeader, checksum(body))
	c.Data(status, "application/json; charset=utf-8", body)
}
