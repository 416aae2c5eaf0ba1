package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON はレスポンスをJSONで書き出します。
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON Error: JSONエンコードエラー: %v", err)
	}
}

// writeJSONError はエラーレスポンスをJSONで書き出します。
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
