package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/controllers"
	"github.com/aymen12m12-coder/sareeone1/models"
	"github.com/aymen12m12-coder/sareeone1/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T, name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.UserAddress{},
		&models.Restaurant{},
		&models.Driver{},
		&models.Order{},
		&models.Rating{},
		&models.OrderChange{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTestRestaurant(t *testing.T, db *gorm.DB, fee, minimum string) *models.Restaurant {
	restaurant := models.Restaurant{
		Name:         "Test Kitchen",
		DeliveryFee:  fee,
		MinimumOrder: minimum,
		IsOpen:       true,
	}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}
	return &restaurant
}

func seedTestDriver(t *testing.T, db *gorm.DB, phone string, available bool) *models.Driver {
	driver := models.Driver{Name: "Test Driver", Phone: phone, IsAvailable: available}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("failed to seed driver: %v", err)
	}
	return &driver
}

// asUser injects the identity the auth middleware would have set.
func asUser(userID, userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_type", userType)
		c.Next()
	}
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
	r.PUT("/orders/:order_id/assign-driver", orderCtrl.AssignDriver)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func orderPayload(restaurantID string) map[string]interface{} {
	return map[string]interface{}{
		"customerName":    "Aisha",
		"customerPhone":   "0551234567",
		"deliveryAddress": "42 Palm Street",
		"restaurantId":    restaurantID,
		"items": []map[string]interface{}{
			{"name": "Shawarma", "price": "10", "quantity": 2},
			{"name": "Falafel Plate", "price": "20", "quantity": 1},
		},
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	db := setupTestDB(t, "orders_create")
	restaurant := seedTestRestaurant(t, db, "5", "")
	r := setupOrderRouter(db)

	w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
	assert.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "40", data["subtotal"])
	assert.Equal(t, "5", data["deliveryFee"])
	assert.Equal(t, "45", data["total"])
	assert.Equal(t, "pending", data["status"])
	assert.NotEmpty(t, data["orderNumber"])
	assert.Nil(t, data["driverId"])
}

func TestCreateOrderFallsBackToBaseFee(t *testing.T) {
	db := setupTestDB(t, "orders_basefee")
	restaurant := seedTestRestaurant(t, db, "", "")
	r := setupOrderRouter(db)

	w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
	assert.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "5", data["deliveryFee"])
	assert.Equal(t, "45", data["total"])
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t, "orders_validation")
	restaurant := seedTestRestaurant(t, db, "5", "")
	r := setupOrderRouter(db)

	t.Run("missing customer name", func(t *testing.T) {
		payload := orderPayload(restaurant.ID)
		payload["customerName"] = ""
		w := doJSON(t, r, "POST", "/orders", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing address", func(t *testing.T) {
		payload := orderPayload(restaurant.ID)
		payload["deliveryAddress"] = ""
		w := doJSON(t, r, "POST", "/orders", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		payload := orderPayload(restaurant.ID)
		payload["items"] = []map[string]interface{}{}
		w := doJSON(t, r, "POST", "/orders", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown restaurant", func(t *testing.T) {
		payload := orderPayload("no-such-restaurant")
		w := doJSON(t, r, "POST", "/orders", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateOrderBelowMinimum(t *testing.T) {
	db := setupTestDB(t, "orders_minimum")
	restaurant := seedTestRestaurant(t, db, "5", "50")
	r := setupOrderRouter(db)

	// Subtotal is 40, below the 50 minimum.
	w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusFlow(t *testing.T) {
	db := setupTestDB(t, "orders_flow")
	restaurant := seedTestRestaurant(t, db, "5", "")
	r := setupOrderRouter(db)

	w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["id"].(string)

	// Skipping straight to delivered is rejected.
	w = doJSON(t, r, "PUT", "/orders/"+orderID, map[string]interface{}{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, status := range []string{"confirmed", "preparing", "on_way", "delivered"} {
		w = doJSON(t, r, "PUT", "/orders/"+orderID, map[string]interface{}{"status": status})
		assert.Equal(t, http.StatusOK, w.Code, "advancing to %s", status)
		assert.Equal(t, status, decodeData(t, w)["status"])
	}
}

func TestAssignDriverEndpoint(t *testing.T) {
	db := setupTestDB(t, "orders_assign")
	restaurant := seedTestRestaurant(t, db, "5", "")
	driver := seedTestDriver(t, db, "0561111111", true)
	rival := seedTestDriver(t, db, "0562222222", true)
	r := setupOrderRouter(db)

	w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
	orderID := decodeData(t, w)["id"].(string)

	// Claiming a pending order fails; it has to be confirmed first.
	w = doJSON(t, r, "PUT", "/orders/"+orderID+"/assign-driver", map[string]interface{}{"driverId": driver.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "PUT", "/orders/"+orderID, map[string]interface{}{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "PUT", "/orders/"+orderID+"/assign-driver", map[string]interface{}{"driverId": driver.ID})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "preparing", data["status"])
	assert.Equal(t, driver.ID, data["driverId"])
	assert.Equal(t, "4", data["driverEarnings"])

	// Second claim loses.
	w = doJSON(t, r, "PUT", "/orders/"+orderID+"/assign-driver", map[string]interface{}{"driverId": rival.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown order is a 404.
	w = doJSON(t, r, "PUT", "/orders/no-such-order/assign-driver", map[string]interface{}{"driverId": driver.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllOrdersFilters(t *testing.T) {
	db := setupTestDB(t, "orders_filters")
	restaurant := seedTestRestaurant(t, db, "5", "")
	driver := seedTestDriver(t, db, "0563333333", true)
	r := setupOrderRouter(db)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, "POST", "/orders", orderPayload(restaurant.ID))
	claimedID := decodeData(t, w)["id"].(string)
	doJSON(t, r, "PUT", "/orders/"+claimedID, map[string]interface{}{"status": "confirmed"})
	doJSON(t, r, "PUT", "/orders/"+claimedID+"/assign-driver", map[string]interface{}{"driverId": driver.ID})

	listLen := func(url string) int {
		w := doJSON(t, r, "GET", url, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		list, _ := resp["data"].([]interface{})
		return len(list)
	}

	assert.Equal(t, 4, listLen("/orders"))
	assert.Equal(t, 3, listLen("/orders?status=pending"))
	// Alias spellings work on the filter too.
	assert.Equal(t, 1, listLen("/orders?status=ready"))
	assert.Equal(t, 1, listLen("/orders?hasDriver=true"))
	assert.Equal(t, 3, listLen("/orders?hasDriver=false"))
	assert.Equal(t, 1, listLen("/orders?driverId="+driver.ID))

	w = doJSON(t, r, "GET", "/orders?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
