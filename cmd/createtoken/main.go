package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"fieldsync.com/fieldsync/security"
)

func main() {
	deviceID := "dev-device"
	if len(os.Args) > 1 {
		deviceID = os.Args[1]
	}

	token, err := security.CreateIdentityToken(&security.DeviceIdentity{
		UserID:   "dev-user",
		DeviceID: deviceID,
	}, os.Getenv("FIELDSYNC_SIGNING_SECRET"), 24*time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
