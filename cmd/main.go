// cmd/main.go
package main

import (
	"go-account-api/app"
)

// @title           Go Account API
// @version         1.0
// @description     User accounts with JWT access and refresh tokens scoped per device.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token as "JWT <token>"
// @securityDefinitions.apikey RefreshAuth
// @in header
// @name Refresh-Token
// @description Refresh token as "JWT <token>"
func main() {
	app.Run()
}
