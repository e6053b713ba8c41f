// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package rest exposes bolometric correction queries over HTTP.
package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/bcutil/internal/bolo"
	"github.com/mlnoga/bcutil/internal/plot"
)

// Serve runs the REST API for the given engine on the default gin address.
func Serve(eng *bolo.Engine) error {
	return Router(eng).Run() // listen and serve on 0.0.0.0:8080
}

// Router builds the gin engine with all API routes.
func Router(eng *bolo.Engine) *gin.Engine {
	s := &server{eng: eng}
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", s.getPing)
			v1.GET("/info", s.getInfo)
			v1.POST("/bc", s.postBC)
			v1.GET("/plot", s.getPlot)
		}
	}
	return r
}

type server struct {
	eng *bolo.Engine
}

func (s *server) getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

type axisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (s *server) getInfo(c *gin.Context) {
	tMin, tMax := s.eng.Bounds(bolo.Temperature)
	logTMin, logTMax := s.eng.Bounds(bolo.LogTemperature)
	bvMin, bvMax := s.eng.Bounds(bolo.ColorIndex)
	bcMin, bcMax := s.eng.BCRange()
	c.JSON(http.StatusOK, gin.H{
		"points": s.eng.Points(),
		"temp":   axisRange{tMin, tMax},
		"logt":   axisRange{logTMin, logTMax},
		"bv":     axisRange{bvMin, bvMax},
		"bc":     axisRange{bcMin, bcMax},
	})
}

type postBCArgs struct {
	Axis   string    `json:"axis" binding:"required"`
	Values []float64 `json:"values" binding:"required"`
}

func (s *server) postBC(c *gin.Context) {
	var args postBCArgs
	if err := c.ShouldBind(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	axis, err := bolo.ParseAxis(args.Axis)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results, anyExtrapolated, err := s.eng.BCAll(axis, args.Values)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, bolo.ErrInvalidQuery) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"axis":         axis.String(),
		"results":      results,
		"extrapolated": anyExtrapolated,
	})
}

func (s *server) getPlot(c *gin.Context) {
	axis, err := bolo.ParseAxis(c.DefaultQuery("axis", "temp"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chart := &plot.Chart{Axis: axis, Width: 640, Height: 480}

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := chart.Write(c.Writer, s.eng, "png"); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Writer.(http.Flusher).Flush()
}
