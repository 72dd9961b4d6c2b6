package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// StoreQRGenerator encodes a link to a store's public page.
type StoreQRGenerator struct {
	BaseURL string
}

func (g StoreQRGenerator) Link(storeID int) string {
	return fmt.Sprintf("%s/stores/%d", strings.TrimRight(g.BaseURL, "/"), storeID)
}

func (g StoreQRGenerator) Generate(storeID int) ([]byte, error) {
	return qrcode.Encode(g.Link(storeID), qrcode.Medium, 256)
}
