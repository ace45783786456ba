// handlers/auth_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/YugalRajVimal/dairy-management-server-sub000/config"
	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
)

// SendOTP generates a one-time sign-in code for a registered user and
// mails it best-effort. The response never reveals whether the email is
// registered.
func SendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": req.Email, "deletedAt": nil}).Decode(&user)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("SendOTP lookup error: %v", err)
		}
		// Same response for unknown accounts
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, an OTP has been sent"})
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Printf("OTP generation error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate OTP")
		return
	}
	hash, err := utils.HashOTP(otp)
	if err != nil {
		log.Printf("OTP hash error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate OTP")
		return
	}

	expires := time.Now().UTC().Add(config.OTPTTL)
	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"otpHash":      hash,
		"otpExpiresAt": expires,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		log.Printf("OTP store error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to issue OTP")
		return
	}

	// Fire-and-forget: mail delivery never blocks or fails the request.
	go utils.SendOTPMail(user.Email, user.Name, otp)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, an OTP has been sent"})
}

// VerifyOTP checks the submitted code against the stored digest and, on
// success, clears it and returns a signed token.
func VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Email == "" || len(req.OTP) != 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and 6-digit OTP required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": req.Email, "deletedAt": nil}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or OTP")
			return
		}
		log.Printf("VerifyOTP lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	if user.OTPHash == "" || user.OTPExpiresAt == nil || time.Now().UTC().After(*user.OTPExpiresAt) {
		utils.RespondWithError(w, http.StatusUnauthorized, "OTP expired, request a new one")
		return
	}
	if !utils.CheckOTPHash(req.OTP, user.OTPHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or OTP")
		return
	}

	// Single-use: clear the OTP before handing out the token
	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$unset": bson.M{"otpHash": "", "otpExpiresAt": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		log.Printf("OTP clear error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Name, user.Role)
	if err != nil {
		log.Printf("JWT generation error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// CheckAuth confirms a bearer token is still valid.
func CheckAuth(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"userId": claims.UserID,
		"name":   claims.Name,
		"role":   claims.Role,
	})
}
