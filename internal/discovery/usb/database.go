// internal/discovery/usb/database.go
package usb

import (
	"github.com/google/gousb"
)

// DeviceDatabase contains known receipt printer vendors and models
type DeviceDatabase struct {
	vendors map[gousb.ID]*VendorInfo
}

// VendorInfo contains vendor-specific information
type VendorInfo struct {
	Name     string
	Table    string
	products map[gousb.ID]string
}

// NewDeviceDatabase creates and initializes the device database
func NewDeviceDatabase() *DeviceDatabase {
	db := &DeviceDatabase{
		vendors: make(map[gousb.ID]*VendorInfo),
	}
	db.initializeDatabase()
	return db
}

// initializeDatabase populates the known devices database
func (db *DeviceDatabase) initializeDatabase() {
	db.AddVendor(0x04B8, &VendorInfo{Name: "Seiko Epson Corporation", Table: "epson"})
	db.AddProduct(0x04B8, 0x0202, "TM-T88IV")
	db.AddProduct(0x04B8, 0x0203, "TM-T88V")
	db.AddProduct(0x04B8, 0x0214, "TM-T20")
	db.AddProduct(0x04B8, 0x0215, "TM-T82")
	db.AddProduct(0x04B8, 0x0216, "TM-T88VI")
	db.AddProduct(0x04B8, 0x0217, "TM-m30")

	db.AddVendor(0x0519, &VendorInfo{Name: "Star Micronics Co., Ltd.", Table: "escpos"})
	db.AddProduct(0x0519, 0x0001, "TSP100")
	db.AddProduct(0x0519, 0x0002, "TSP143IIIU")
	db.AddProduct(0x0519, 0x0003, "TSP654II")

	db.AddVendor(0x1CBE, &VendorInfo{Name: "Citizen Systems Japan Co., Ltd.", Table: "escpos"})
	db.AddProduct(0x1CBE, 0x0001, "CT-S310II")
	db.AddProduct(0x1CBE, 0x0002, "CT-S4000")

	db.AddVendor(0x1504, &VendorInfo{Name: "BIXOLON Co., Ltd.", Table: "escpos"})
	db.AddProduct(0x1504, 0x0006, "SRP-330II")
	db.AddProduct(0x1504, 0x0007, "SRP-350III")
}

// IsKnownVendor checks if a vendor ID is in the database
func (db *DeviceDatabase) IsKnownVendor(vendorID gousb.ID) bool {
	_, exists := db.vendors[vendorID]
	return exists
}

// GetVendorInfo retrieves vendor information
func (db *DeviceDatabase) GetVendorInfo(vendorID gousb.ID) *VendorInfo {
	return db.vendors[vendorID]
}

// GetProduct retrieves a model name, or "" for unknown products
func (vi *VendorInfo) GetProduct(productID gousb.ID) string {
	return vi.products[productID]
}

// GetTotalProductCount returns total number of known products
func (db *DeviceDatabase) GetTotalProductCount() int {
	total := 0
	for _, vendor := range db.vendors {
		total += len(vendor.products)
	}
	return total
}

// AddVendor adds a new vendor to the database
func (db *DeviceDatabase) AddVendor(vendorID gousb.ID, info *VendorInfo) {
	if info.products == nil {
		info.products = make(map[gousb.ID]string)
	}
	db.vendors[vendorID] = info
}

// AddProduct adds a new product to an existing vendor
func (db *DeviceDatabase) AddProduct(vendorID, productID gousb.ID, model string) {
	if vendor, exists := db.vendors[vendorID]; exists {
		vendor.products[productID] = model
	}
}
