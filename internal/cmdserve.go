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

package internal

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/contrib/static"
	"github.com/gin-gonic/gin"
)

// Serve the viewer frontend and API endpoints via HTTP
func CmdServe(session *Session, webDir string, port int) {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// Serve a custom frontend if one was provided; requests fall through
	// to the built-in page below otherwise
	if webDir!="" {
		r.Use(static.Serve("/", static.LocalFile(webDir, true)))
	}

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
	})

	r.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.GET("/api/v1/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, session.Info())
	})

	r.POST("/api/v1/next", func(c *gin.Context) {
		session.Advance()
		c.JSON(http.StatusOK, session.Info())
	})

	r.GET("/api/v1/image", func(c *gin.Context) {
		_,path:=session.Current()
		rendered,err:=session.Render(path)
		if err!=nil {
			c.String(http.StatusNotFound, err.Error())
			return
		}
		buf:=bytes.Buffer{}
		if err:=rendered.Buffer.WritePNG(&buf); err!=nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	})

	r.POST("/api/v1/save", func(c *gin.Context) {
		outName,err:=session.SaveCurrent()
		if err!=nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": outName})
	})

	LogPrintf("Serving viewer on http://localhost:%d\n", port)
	r.Run(fmt.Sprintf(":%d", port)) // listen and serve on 0.0.0.0:port (for windows "localhost:port")
}

// Built-in single page frontend: the current image, its dimensions and
// value range, and a button advancing to the next image
const indexPage=`<!DOCTYPE html>
<html>
<head><title>FEX</title></head>
<body>
<h3 id="title">FEX</h3>
<div><img id="image" src="/api/v1/image" alt="current image"/></div>
<div id="dims">width/height:</div>
<div id="range">min/max:</div>
<div id="error" style="color:red"></div>
<button id="next">Next</button>
<script>
function refresh(info) {
	document.getElementById("title").textContent="FEX: "+info.path;
	document.title="FEX: "+info.path;
	document.getElementById("dims").textContent="width/height: "+info.width+"x"+info.height;
	document.getElementById("range").textContent="min/max: "+info.min+"x"+info.max;
	document.getElementById("error").textContent=info.error||"";
	document.getElementById("image").src="/api/v1/image?i="+info.index+"&t="+Date.now();
}
fetch("/api/v1/info").then(r=>r.json()).then(refresh);
document.getElementById("next").addEventListener("click", function() {
	fetch("/api/v1/next", {method:"POST"}).then(r=>r.json()).then(refresh);
});
</script>
</body>
</html>
`
