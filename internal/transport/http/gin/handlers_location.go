package httpgin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/geodata"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  List states
// @Param    search  query  string  false  "name filter"
// @Success  200  {object}  Response
// @Router   /api/v1/locations/states [get]
func handleListStates(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		states, err := svcs.Location.States(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		if q := strings.TrimSpace(c.Query("search")); q != "" {
			var filtered []geodata.State
			for _, st := range states {
				if strings.Contains(strings.ToLower(st.Name), strings.ToLower(q)) {
					filtered = append(filtered, st)
				}
			}
			states = filtered
		}

		writeJSONWithCache(c, http.StatusOK, Response{
			Success: true,
			Message: "states",
			Data:    states,
		}, "public, max-age=3600", true)
	}
}

// @Summary  List LGAs for one state
// @Param    code  path  string  true  "State code"
// @Success  200  {object}  Response
// @Router   /api/v1/locations/states/{code}/lgas [get]
func handleListLGAs(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		lgas, err := svcs.Location.LGAs(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, Response{
			Success: true,
			Message: "local government areas",
			Data:    lgas,
		}, "public, max-age=3600", true)
	}
}

// @Summary  Search states by name or code
// @Param    q  query  string  false  "search term"
// @Success  200  {object}  Response
// @Router   /api/v1/locations/search [get]
func handleSearchLocations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		states, err := svcs.Location.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, Response{
			Success: true,
			Message: "search results",
			Data:    states,
		}, "public, max-age=3600", true)
	}
}

// @Summary  Geodata cache status
// @Success  200  {object}  Response
// @Router   /api/v1/locations/cache-info [get]
func handleLocationCacheInfo(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondOK(c, "cache info", svcs.Location.CacheInfo())
	}
}
