package pay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/rdx"
	"wowzie/utils"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
)

const intentLockTTL = 10 * time.Second

func init() {
	_ = godotenv.Load()
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

// CreatePaymentIntent creates a card-only Stripe PaymentIntent for a
// camp booking and returns its client secret. The amount must match
// a whole multiple of the camp's price.
func CreatePaymentIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		CampID   string `json:"campId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if input.Amount <= 0 || input.CampID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "amount and campId are required")
		return
	}
	if input.Currency == "" {
		input.Currency = "usd"
	}
	input.Currency = strings.ToLower(input.Currency)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var camp models.Camp
	if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": input.CampID}).Decode(&camp); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
		return
	}
	if camp.PriceCents > 0 && input.Amount%camp.PriceCents != 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "amount does not match camp price")
		return
	}

	// double-click / double-submit guard
	lockKey := "payintent:" + userID + ":" + input.CampID
	fresh, err := rdx.RdxSetNX(ctx, lockKey, intentLockTTL)
	if err != nil {
		log.Printf("pay: lock check failed: %v", err)
	} else if !fresh {
		utils.RespondWithError(w, http.StatusConflict, "Payment already in progress")
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(input.Amount),
		Currency:           stripe.String(input.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.AddMetadata("campId", input.CampID)
	params.AddMetadata("userId", userID)

	pi, err := paymentintent.New(params)
	if err != nil {
		log.Printf("pay: stripe intent failed: %v", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Payment provider error")
		return
	}

	record := models.PaymentIntentRecord{
		IntentID:  pi.ID,
		UserID:    userID,
		CampID:    input.CampID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Status:    string(pi.Status),
		CreatedAt: time.Now(),
	}
	if _, err := db.PaymentsCollection.InsertOne(ctx, record); err != nil {
		log.Printf("pay: record insert failed for %s: %v", pi.ID, err)
		// the intent exists at Stripe; still hand the secret back
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"clientSecret": pi.ClientSecret})
}

// ListMyPayments returns the caller's payment intent records.
func ListMyPayments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.PaymentsCollection.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	defer cur.Close(ctx)

	var records []models.PaymentIntentRecord
	if err := cur.All(ctx, &records); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if records == nil {
		records = []models.PaymentIntentRecord{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "payments": records})
}
