package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lyc2760008/EduHub-sub006/config"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/routes"
)

func main() {
	cfg := config.Load()

	// ถ้า DB ยังไม่ขึ้น โปรแกรม fail ทันที — เหมาะสำหรับ early fail
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
