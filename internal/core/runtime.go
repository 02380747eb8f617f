package core

import (
	"bytes"
	"strconv"
)

// RegistryRuntime sets up window.__pagepack, the module registry every
// script chunk starts with. Loading it twice keeps the first copy, so chunks
// sharing a page share one registry.
const RegistryRuntime = `(function (g) {
  if (g.__pagepack) return;
  var factories = {};
  var cache = {};
  function require(id) {
    if (cache[id]) return cache[id].exports;
    var factory = factories[id];
    if (!factory) throw new Error("pagepack: module " + id + " is not defined");
    var module = (cache[id] = { exports: {} });
    factory(require, module, module.exports);
    return module.exports;
  }
  g.__pagepack = {
    define: function (id, factory) {
      if (!factories[id]) factories[id] = factory;
    },
    require: require,
    interop: function (m) {
      return m && m.__esModule ? m : { default: m };
    },
    star: function (target, m) {
      for (var k in m) {
        if (k !== "default" && k !== "__esModule" && Object.prototype.hasOwnProperty.call(m, k)) target[k] = m[k];
      }
    },
    load: function (id) {
      return new Promise(function (resolve) {
        resolve(require(id));
      });
    }
  };
})(typeof window !== "undefined" ? window : globalThis);
`

func writeDefine(buf *bytes.Buffer, id string, body []byte) {
	buf.WriteString("__pagepack.define(" + strconv.Quote(id) + ", function (require, module, exports) {\n")
	buf.Write(body)
	if !bytes.HasSuffix(body, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString("});\n")
}
