package utils

import (
	"fmt"
	"log"

	"renteo/config"

	"github.com/go-resty/resty/v2"
)

// SendOTPToMobile delivers a one-time code through the SMS gateway
func SendOTPToMobile(mobile, otp string) error {
	client := resty.New()

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+config.AppConfig.SmsApiKey).
		SetBody(map[string]string{
			"sender":  config.AppConfig.SmsSenderID,
			"to":      config.AppConfig.CountryCode + mobile,
			"message": fmt.Sprintf("Your Renteo verification code is %s. It expires in 5 minutes.", otp),
		}).
		Post(config.AppConfig.SmsApiUrl)

	if err != nil {
		log.Printf("Error while sending OTP: %v", err)
		return err
	}

	if resp.StatusCode() >= 400 {
		log.Printf("Failed to send OTP, response code: %d", resp.StatusCode())
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}

	log.Println("OTP sent successfully to", mobile)
	return nil
}
