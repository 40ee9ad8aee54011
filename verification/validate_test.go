package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidatePersonalInfoAcceptsCompleteInput(t *testing.T) {
	assert.Empty(t, ValidatePersonalInfo(validPersonalInfo()))
}

func TestValidatePersonalInfoFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PersonalInfoInput)
		field  string
	}{
		{"short name", func(i *PersonalInfoInput) { i.FullName = "Al" }, "fullName"},
		{"missing dob", func(i *PersonalInfoInput) { i.DateOfBirth = "" }, "dateOfBirth"},
		{"malformed dob", func(i *PersonalInfoInput) { i.DateOfBirth = "10/05/1990" }, "dateOfBirth"},
		{"short national id", func(i *PersonalInfoInput) { i.NationalID = "12345" }, "nationalId"},
		{"alpha national id", func(i *PersonalInfoInput) { i.NationalID = "12345abcde" }, "nationalId"},
		{"bad phone prefix", func(i *PersonalInfoInput) { i.Phone = "52345678" }, "phone"},
		{"short phone", func(i *PersonalInfoInput) { i.Phone = "2234567" }, "phone"},
		{"bad email", func(i *PersonalInfoInput) { i.Email = "not-an-email" }, "email"},
		{"missing street", func(i *PersonalInfoInput) { i.Street = "  " }, "street"},
		{"missing area", func(i *PersonalInfoInput) { i.Area = "" }, "area"},
		{"missing city", func(i *PersonalInfoInput) { i.City = "" }, "city"},
		{"missing emergency name", func(i *PersonalInfoInput) { i.EmergencyName = "" }, "emergencyName"},
		{"missing emergency relation", func(i *PersonalInfoInput) { i.EmergencyRelation = "" }, "emergencyRelation"},
		{"bad emergency phone", func(i *PersonalInfoInput) { i.EmergencyPhone = "123" }, "emergencyPhone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := validPersonalInfo()
			tc.mutate(&info)
			errors := ValidatePersonalInfo(info)
			assert.Contains(t, errors, tc.field)
		})
	}
}

func TestValidatePersonalInfoEmailIsOptional(t *testing.T) {
	info := validPersonalInfo()
	info.Email = ""
	assert.Empty(t, ValidatePersonalInfo(info))
}

func TestDateOfBirthAgeBounds(t *testing.T) {
	today := time.Now()

	under := validPersonalInfo()
	under.DateOfBirth = today.AddDate(-17, 0, 0).Format("2006-01-02")
	assert.Contains(t, ValidatePersonalInfo(under), "dateOfBirth")

	over := validPersonalInfo()
	over.DateOfBirth = today.AddDate(-102, 0, 0).Format("2006-01-02")
	assert.Contains(t, ValidatePersonalInfo(over), "dateOfBirth")

	adult := validPersonalInfo()
	adult.DateOfBirth = today.AddDate(-30, 0, 0).Format("2006-01-02")
	assert.NotContains(t, ValidatePersonalInfo(adult), "dateOfBirth")
}

func TestMobileNumberPrefixes(t *testing.T) {
	assert.True(t, IsValidMobile("22345678"))
	assert.True(t, IsValidMobile("33456789"))
	assert.True(t, IsValidMobile("41234567"))
	assert.False(t, IsValidMobile("12345678"))
	assert.False(t, IsValidMobile("92345678"))
	assert.False(t, IsValidMobile("223456789"))
	assert.False(t, IsValidMobile("+22345678"))
}

func TestDocumentFileRules(t *testing.T) {
	assert.Empty(t, ValidateDocumentFile(DocNationalID, "scan.PDF", 1024))
	assert.Empty(t, ValidateDocumentFile(DocDriverLicense, "front.jpeg", MaxDocumentSize))

	assert.Contains(t, ValidateDocumentFile(DocNationalID, "scan.exe", 1024), "file")
	assert.Contains(t, ValidateDocumentFile(DocNationalID, "scan", 1024), "file")
	assert.Contains(t, ValidateDocumentFile(DocNationalID, "scan.pdf", 0), "fileSize")
	assert.Contains(t, ValidateDocumentFile(DocNationalID, "scan.pdf", MaxDocumentSize+1), "fileSize")
	assert.Contains(t, ValidateDocumentFile("tax_return", "scan.pdf", 1024), "type")
}

func TestSelfieFileRules(t *testing.T) {
	assert.Empty(t, ValidateSelfieFile("selfie.jpg", 1024))
	assert.Empty(t, ValidateSelfieFile("selfie.PNG", MaxSelfieSize))

	// PDFs are fine for documents but never for selfies.
	assert.Contains(t, ValidateSelfieFile("selfie.pdf", 1024), "file")
	assert.Contains(t, ValidateSelfieFile("selfie.jpg", MaxSelfieSize+1), "fileSize")
	assert.Contains(t, ValidateSelfieFile("selfie.jpg", 0), "fileSize")
}

func TestConfirmationMethods(t *testing.T) {
	for _, m := range ConfirmationMethods {
		assert.True(t, IsValidConfirmationMethod(m))
	}
	assert.False(t, IsValidConfirmationMethod("word_of_mouth"))
	assert.False(t, IsValidConfirmationMethod(""))
}

func TestRequiredDocumentsByRole(t *testing.T) {
	renter := RequiredDocumentTypes(RoleRenter)
	assert.ElementsMatch(t, []DocumentType{DocNationalID, DocProofOfAddress, DocDriverLicense}, renter)

	host := RequiredDocumentTypes(RoleHost)
	assert.ElementsMatch(t, []DocumentType{
		DocNationalID, DocProofOfAddress, DocDriverLicense,
		DocVehicleRegistration, DocVehicleOwnership,
	}, host)

	assert.True(t, IsRequiredDocumentType(DocVehicleOwnership, RoleHost))
	assert.False(t, IsRequiredDocumentType(DocVehicleOwnership, RoleRenter))
	assert.True(t, IsKnownDocumentType(DocPassport))
	assert.False(t, IsKnownDocumentType("tax_return"))
}
